package function

import "github.com/leapstack-labs/sqlfn/pkg/core"

// Overloaded builds a descriptor dispatching to candidates, tried in the
// given order. The first candidate's kind is used for the group.
func Overloaded(name string, candidates ...*Descriptor) *Descriptor {
	d := &Descriptor{Name: name, Candidates: candidates}
	if len(candidates) > 0 {
		d.Kind = candidates[0].Kind
		d.Description = candidates[0].Description
	}
	return d
}

// Resolve returns the descriptor that accepts args: d itself, or the first
// accepting candidate of an overloaded descriptor. When no candidate
// accepts, the error is an *OverloadError whose primary rejection is the
// first candidate's.
func Resolve(d *Descriptor, args []core.Expr, tc TypeContext) (*Descriptor, error) {
	if !d.IsOverloaded() {
		if d.Validator != nil {
			if err := d.Validator.Validate(d.Name, args, tc); err != nil {
				return nil, err
			}
		}
		return d, nil
	}

	var rejections []error
	for _, c := range d.Candidates {
		chosen, err := Resolve(c, args, tc)
		if err == nil {
			return chosen, nil
		}
		rejections = append(rejections, err)
	}
	return nil, &OverloadError{
		Function:   d.Name,
		Primary:    rejections[0],
		Suppressed: rejections[1:],
	}
}
