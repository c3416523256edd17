package deficit

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"gear-cost/core/catalog"
	"gear-cost/core/gear"
	"gear-cost/core/refdata"
	"gear-cost/core/types"
	"gear-cost/internal/errors"
)

// PartSelection is the current and target tier chosen for one part
type PartSelection struct {
	Part    string `json:"part" yaml:"part" validate:"required"`
	Current string `json:"current" yaml:"current" validate:"required"`
	Target  string `json:"target" yaml:"target" validate:"required"`
}

// Request is the input of one calculation
type Request struct {
	Parts     []PartSelection   `json:"parts" yaml:"parts" validate:"dive"`
	Owned     types.Inventory   `json:"owned" yaml:"owned" validate:"dive"`
	Purchases catalog.Purchases `json:"purchases,omitempty" yaml:"purchases,omitempty" validate:"dive,keys,required,endkeys,gte=0"`
}

var validate = validator.New()

// ValidateRequest rejects requests the engine must never see: negative
// amounts or counts, blank names and repeated resources or parts.
func ValidateRequest(req Request) error {
	var problems []string

	if err := validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf(
					"field '%s' failed validation: %s (value: '%v')",
					fe.Namespace(), fe.Tag(), fe.Value(),
				))
			}
		} else {
			return errors.Wrap(errors.TypeInput, "invalid request", err)
		}
	}

	seen := make(map[types.ResourceKind]bool, len(req.Owned))
	for _, h := range req.Owned {
		if seen[h.Resource] {
			problems = append(problems, fmt.Sprintf("resource %q listed more than once", h.Resource))
		}
		seen[h.Resource] = true
	}

	parts := make(map[string]bool, len(req.Parts))
	for _, p := range req.Parts {
		if parts[p.Part] {
			problems = append(problems, fmt.Sprintf("part %q listed more than once", p.Part))
		}
		parts[p.Part] = true
	}

	if len(problems) > 0 {
		return errors.Newf(errors.TypeInput, "validation failed:\n  %s", strings.Join(problems, "\n  ")).
			WithContext("problems", problems)
	}
	return nil
}

// StartTier is the tier a part starts from when none is given: the default
// tier, or the first tier when the ladder has no default.
func StartTier(ref *refdata.Reference) string {
	if ref.Ladder.Has(gear.DefaultTier) {
		return gear.DefaultTier
	}
	return ref.Ladder.Names()[0]
}

// DefaultRequest selects every gear part at StartTier, owning nothing of the
// tracked resources and buying nothing.
func DefaultRequest(ref *refdata.Reference) Request {
	tier := StartTier(ref)

	req := Request{Purchases: catalog.Purchases{}}
	for _, part := range gear.Parts() {
		req.Parts = append(req.Parts, PartSelection{Part: part, Current: tier, Target: tier})
	}
	for _, kind := range gear.Resources() {
		req.Owned = append(req.Owned, types.Holding{Resource: kind})
	}
	return req
}
