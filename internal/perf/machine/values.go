package machine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/runner"
)

// normalizeSizes sorts and de-duplicates sizes, dropping anything below 1.
func normalizeSizes(sizes []int) []int {
	seen := make(map[int]bool, len(sizes))
	out := make([]int, 0, len(sizes))
	for _, s := range sizes {
		if s < 1 || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return append([]int(nil), runner.DefaultSizes...)
	}
	sort.Ints(out)
	return out
}

// clamp maps v onto the allowed sizes: below the range it becomes the smallest
// size, above it the largest, otherwise the largest size not greater than v.
func clamp(v int, sizes []int) int {
	if v <= sizes[0] {
		return sizes[0]
	}
	out := sizes[0]
	for _, s := range sizes {
		if s > v {
			break
		}
		out = s
	}
	return out
}

func isSize(v int, sizes []int) bool {
	for _, s := range sizes {
		if s == v {
			return true
		}
	}
	return false
}

func pluralise(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func copiesLabel(n int) string  { return pluralise(n, "copy", "copies") }
func samplesLabel(n int) string { return pluralise(n, "sample", "samples") }

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

// Filename is the name a saved result for the story is downloaded as.
func Filename(storyName string) string {
	slug := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(storyName), "-"), "-")
	if slug == "" {
		slug = "story"
	}
	return slug + ".json"
}
