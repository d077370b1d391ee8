package i18n

// Error message keys
const (
	ErrGeneric             = "error_generic"
	ErrValidationFailed    = "error_validation_failed"
	ErrInvalidIDFormat     = "error_invalid_id_format"
	ErrMissingInput        = "error_missing_input"
	ErrEntityNotFound      = "error_entity_not_found"
	ErrPostNotFound        = "error_post_not_found"
	ErrCommentNotFound     = "error_comment_not_found"
	ErrUserNotFound        = "error_user_not_found"
	ErrWrongCredentials    = "error_wrong_credentials"
	ErrUsernameTaken       = "error_username_taken"
	ErrEmailTaken          = "error_email_taken"
	ErrMissingAuthHeader   = "error_missing_auth_header"
	ErrMalformedAuth       = "error_malformed_auth_header"
	ErrInvalidToken        = "error_invalid_token"
	ErrDeletePostDenied    = "error_delete_post_denied"
	ErrDeleteCommentDenied = "error_delete_comment_denied"
	ErrEmptyPostBody       = "error_empty_post_body"
	ErrEmptyCommentBody    = "error_empty_comment_body"
	ErrComplexityExceeded  = "error_complexity_exceeded"
	ErrMutationOverGet     = "error_mutation_over_get"
	ErrAdminCredentials    = "error_admin_credentials"
)

// Field validation keys
const (
	FieldUsernameEmpty        = "field_username_empty"
	FieldUsernameAlphanumeric = "field_username_alphanumeric"
	FieldPasswordEmpty        = "field_password_empty"
	FieldPasswordTooShort     = "field_password_too_short"
	FieldPasswordCase         = "field_password_case"
	FieldPasswordDigit        = "field_password_digit"
	FieldPasswordSpecial      = "field_password_special"
	FieldPasswordsMismatch    = "field_passwords_mismatch"
	FieldEmailEmpty           = "field_email_empty"
	FieldEmailInvalid         = "field_email_invalid"
	FieldBodyEmpty            = "field_body_empty"
	FieldUsernameTaken        = "field_username_taken"
	FieldEmailTaken           = "field_email_taken"
	FieldUserNotFound         = "field_user_not_found"
	FieldWrongCredentials     = "field_wrong_credentials"
)

// Success message keys
const (
	SuccessPostDeleted = "success_post_deleted"
)
