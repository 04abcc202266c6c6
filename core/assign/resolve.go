package assign

import (
	"strings"

	"github.com/kilianp07/fieldops/core/model"
)

// NormalizeDispatchRef reduces a free-text dispatch reference to uppercase
// alphanumerics and hyphens so "disp 0042", "DISP-0042" and "Disp_0042"
// all resolve the same way.
func NormalizeDispatchRef(ref string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(ref)) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveDispatch matches a free-text reference against stored dispatch
// numbers. Exact matches on the normalized number take priority over
// substring matches; within a tier, directory order is preserved and the
// caller uses the first entry.
func ResolveDispatch(ref string, dispatches []model.Dispatch) []model.Dispatch {
	norm := NormalizeDispatchRef(ref)
	if norm == "" {
		return nil
	}
	var exact, partial []model.Dispatch
	for _, d := range dispatches {
		stored := NormalizeDispatchRef(d.Number)
		switch {
		case stored == norm:
			exact = append(exact, d)
		case strings.Contains(stored, norm):
			partial = append(partial, d)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return partial
}

// ResolveTechnician matches a free-text name fragment against technician
// display names, lowercase substring semantics. "omar" matches
// "Omar Ben Ali"; an empty reference matches nobody.
func ResolveTechnician(ref string, technicians []model.Technician) []model.Technician {
	needle := strings.ToLower(strings.TrimSpace(ref))
	if needle == "" {
		return nil
	}
	var out []model.Technician
	for _, t := range technicians {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			out = append(out, t)
		}
	}
	return out
}

// sampleNames returns up to limit technician display names, used by
// not-found notices.
func sampleNames(technicians []model.Technician, limit int) []string {
	names := make([]string, 0, limit)
	for _, t := range technicians {
		if len(names) == limit {
			break
		}
		names = append(names, t.Name)
	}
	return names
}
