package seeksphere

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validation messages
const (
	msgQueryRequired    = "Query string is required"
	msgInvalidMode      = "Mode must be either 'sql_only' or 'full'"
	msgTokensNotMapping = "Tokens must be a dictionary"
	msgTokenKey         = "All token keys must be strings"
	msgTokenValue       = "All token values must be lists"
	msgTokenItem        = "All token values must be lists of strings"
	msgSchemaRequired   = "search_schema is required"
)

// validateSearch checks the query before the mode
func validateSearch(req SearchRequest, mode SearchMode) error {
	if err := validation.Validate(req.Query,
		validation.Required.Error(msgQueryRequired),
	); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	// Required catches the empty mode, which In treats as valid
	if err := validation.Validate(mode,
		validation.Required.Error(msgInvalidMode),
		validation.In(SearchModeSQLOnly, SearchModeFull).Error(msgInvalidMode),
	); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	return nil
}

// validateTokens accepts empty maps and empty lists, but not nil lists
func validateTokens(req UpdateTokensRequest) error {
	if err := validation.Validate(req.Tokens,
		validation.NotNil.Error(msgTokensNotMapping),
		validation.By(tokenListsPresent),
	); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

// tokenListsPresent rejects nil lists, which would be sent as null
func tokenListsPresent(value any) error {
	tokens, _ := value.(map[string][]string)
	for _, list := range tokens {
		if list == nil {
			return errors.New(msgTokenValue)
		}
	}
	return nil
}

// validateSchema only checks presence; the schema body is opaque
func validateSchema(req UpdateSchemaRequest) error {
	if err := validation.Validate(req.SearchSchema,
		validation.NotNil.Error(msgSchemaRequired),
	); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}
