package postservice

import (
	"github.com/sushihentaime/blogspot/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must not be more than 200 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}
