package diff

import (
	"github.com/pmezard/go-difflib/difflib"
	"gitlab.com/tozd/go/errors"
)

// Unified returns a unified diff that turns want into got, or "" when the two
// are equal.
func Unified(name, want, got string) (string, error) {
	if want == got {
		return "", nil
	}
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: name + " (on disk)",
		ToFile:   name + " (rendered)",
		Context:  3,
	})
	if err != nil {
		return "", errors.Errorf("diffing %s: %w", name, err)
	}
	return out, nil
}
