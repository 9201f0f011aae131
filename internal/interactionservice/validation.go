package interactionservice

import "github.com/koyasong/bloghive/internal/common"

func validateUserID(v *common.Validator, userID int) {
	v.Check(userID > 0, "user_id", "must be greater than zero")
}

func validateComment(v *common.Validator, comment string) {
	v.Check(comment != "", "comment", "must be provided")
	v.Check(v.CheckMaxLength(comment, 1000), "comment", "must not be more than 1000 characters long")
}
