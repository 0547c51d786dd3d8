package blogservice

import (
	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/store"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 50000
	MaxTags          = store.MaxAnyValues
	MaxTagLength     = 30
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 0, MaxTitleLength), "title", "must not be more than 200 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
	v.Check(v.CheckStringLength(content, 0, MaxContentLength), "content", "must not be more than 50000 characters long")
}

func validateTags(v *common.Validator, tags []string) {
	v.Check(len(tags) <= MaxTags, "tags", "must not contain more than 10 tags")
	for _, t := range tags {
		v.Check(v.CheckStringLength(t, 0, MaxTagLength), "tags", "must each be at most 30 characters long")
	}
}

func validateID(v *common.Validator, id, name string) {
	v.Check(id != "", name, "must be provided")
}
