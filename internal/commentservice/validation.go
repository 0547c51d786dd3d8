package commentservice

import "github.com/sushihentaime/blogdeck/internal/common"

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
	v.Check(v.CheckStringLength(content, 0, MaxContentLength), "content", "must not be more than 1000 characters long")
}

func validateID(v *common.Validator, id, name string) {
	v.Check(id != "", name, "must be provided")
}
