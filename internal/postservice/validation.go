package postservice

import "github.com/koyasong/bloghive/internal/common"

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckMaxLength(title, 255), "title", "must not be more than 255 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

func validateImageURL(v *common.Validator, imageURL *string) {
	if imageURL != nil {
		v.Check(v.CheckURL(*imageURL), "image_url", "must be a valid URL")
	}
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
