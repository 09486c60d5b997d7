package categoryservice

import (
	"github.com/sushihentaime/inkwell/internal/common"
)

func validateName(v *common.Validator, name string) {
	v.Check(name != "", "name", "must be provided")
	v.Check(v.CheckStringLength(name, 1, 100), "name", "must be between 1 and 100 characters long")
}

func validateSlug(v *common.Validator, slug string) {
	v.Check(slug != "", "name", "must contain at least one letter or number")
}

func validateDescription(v *common.Validator, description *string) {
	if description != nil {
		v.Check(v.CheckStringLength(*description, 0, 500), "description", "must not be more than 500 characters long")
	}
}
