package onboarding

import "github.com/PabloGalante/mindecho/internal/domain"

// Picker tracks the interests chosen during onboarding, in selection order.
type Picker struct {
	selected []domain.Interest
}

// Toggle selects or unselects i. Selecting beyond MaxInterests is ignored.
// It reports whether i is selected afterwards.
func (p *Picker) Toggle(i domain.Interest) bool {
	if !i.Valid() {
		return false
	}
	for idx, s := range p.selected {
		if s == i {
			p.selected = append(p.selected[:idx], p.selected[idx+1:]...)
			return false
		}
	}
	if len(p.selected) >= domain.MaxInterests {
		return false
	}
	p.selected = append(p.selected, i)
	return true
}

func (p *Picker) Selected(i domain.Interest) bool {
	return domain.ContainsInterest(p.selected, i)
}

func (p *Picker) Count() int {
	return len(p.selected)
}

// CanComplete reports whether enough interests are chosen to continue.
func (p *Picker) CanComplete() bool {
	return len(p.selected) >= domain.MinInterests
}

// Complete returns the ordered selection.
func (p *Picker) Complete() ([]domain.Interest, error) {
	if !p.CanComplete() {
		return nil, domain.ErrTooFewInterests
	}
	return append([]domain.Interest(nil), p.selected...), nil
}

func (p *Picker) Reset() {
	p.selected = nil
}
