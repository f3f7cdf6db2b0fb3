package dataset

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sourcegraph/conc/pool"
)

// LabeledText is one raw corpus document before tokenization.
type LabeledText struct {
	Text  string
	Label int
}

// Label directory names recognized by LoadDir.
var labelDirs = map[string]int{
	"neg": LabelNegative,
	"pos": LabelPositive,
}

// LoadDir reads a labeled corpus from root, expecting the movie-review
// layout: root/pos/*.txt and root/neg/*.txt. Files are read concurrently
// with a bounded worker pool. If ignoreFile names an existing file inside
// root, its gitignore-style patterns exclude matching relative paths.
// Results are ordered by label directory then filename so repeated loads
// are deterministic.
func LoadDir(ctx context.Context, root, ignoreFile string) ([]LabeledText, error) {
	checker, err := loadIgnore(root, ignoreFile)
	if err != nil {
		return nil, err
	}

	type job struct {
		path  string
		rel   string
		label int
	}
	var jobs []job
	for _, dir := range []string{"neg", "pos"} {
		label := labelDirs[dir]
		entries, err := os.ReadDir(filepath.Join(root, dir))
		if err != nil {
			return nil, fmt.Errorf("could not read label directory %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
				continue
			}
			rel := filepath.Join(dir, e.Name())
			if checker != nil && checker.MatchesPath(rel) {
				continue
			}
			jobs = append(jobs, job{
				path:  filepath.Join(root, dir, e.Name()),
				rel:   rel,
				label: label,
			})
		}
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].rel < jobs[j].rel })

	// I/O bound: CPU cores * 2 workers, bounded by the conc pool
	maxWorkers := min(max(runtime.NumCPU()*2, 4), 32)

	out := make([]LabeledText, len(jobs))
	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(maxWorkers).WithContext(ctx)
	for i, jb := range jobs {
		p.Go(func(ctx context.Context) error {
			data, err := os.ReadFile(jb.path)
			if err != nil {
				return fmt.Errorf("could not read %s: %w", jb.rel, err)
			}
			mu.Lock()
			out[i] = LabeledText{Text: string(data), Label: jb.label}
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// LoadTSV reads a labeled corpus from a tab-separated file with one
// "label<TAB>text" record per line. Labels are 0 (negative) or 1 (positive).
// Blank lines and lines starting with '#' are skipped.
func LoadTSV(path string) ([]LabeledText, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open corpus file: %w", err)
	}
	defer f.Close()

	var out []LabeledText
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		label, text, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: expected label<TAB>text", lineNo)
		}
		l, err := strconv.Atoi(strings.TrimSpace(label))
		if err != nil || (l != LabelNegative && l != LabelPositive) {
			return nil, fmt.Errorf("line %d: invalid label %q", lineNo, label)
		}
		out = append(out, LabeledText{Text: text, Label: l})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not scan corpus file: %w", err)
	}
	return out, nil
}

// loadIgnore compiles gitignore-style exclusion patterns if the ignore file
// exists under root. A missing file is not an error.
func loadIgnore(root, ignoreFile string) (*ignore.GitIgnore, error) {
	if ignoreFile == "" {
		return nil, nil
	}
	ignorePath := filepath.Join(root, ignoreFile)
	if _, err := os.Stat(ignorePath); err == nil {
		checker, err := ignore.CompileIgnoreFile(ignorePath)
		if err != nil {
			return nil, fmt.Errorf("error reading %s file: %w", ignoreFile, err)
		}
		return checker, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("error checking for %s file: %w", ignoreFile, err)
	}
	return nil, nil
}
