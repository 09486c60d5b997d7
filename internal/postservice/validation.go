package postservice

import (
	"github.com/sushihentaime/inkwell/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must be between 1 and 200 characters long")
}

func validateSlug(v *common.Validator, slug string) {
	v.Check(slug != "", "title", "must contain at least one letter or number")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

func validateStatus(v *common.Validator, status Status) {
	v.Check(common.PermittedValue(status, StatusDraft, StatusPublished, StatusScheduled), "status", "must be one of draft, published or scheduled")
}

func validateOptional(v *common.Validator, value *string, field string, max int) {
	if value != nil {
		v.Check(v.CheckStringLength(*value, 0, max), field, "is too long")
	}
}

func validateFilter(v *common.Validator, f PostFilter) {
	if f.Status != "" {
		validateStatus(v, Status(f.Status))
	}
	v.Check(f.Limit <= MaxLimit, "limit", "must not be greater than 100")
}
