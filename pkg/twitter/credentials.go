package twitter

import "fmt"

// Credentials are the four OAuth 1.0a values every request is signed with.
type Credentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
}

// MissingCredentialError names the first credential field that was left empty.
type MissingCredentialError struct {
	Field string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s needs to be provided", e.Field)
}

func (e *MissingCredentialError) Unwrap() error {
	return ErrMissingCredential
}

// Validate checks the fields in declaration order and reports the first empty one.
func (c Credentials) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"API KEY", c.APIKey},
		{"API SECRET", c.APISecret},
		{"ACCESS TOKEN", c.AccessToken},
		{"ACCESS TOKEN SECRET", c.AccessTokenSecret},
	}

	for _, field := range fields {
		if field.value == "" {
			return &MissingCredentialError{Field: field.name}
		}
	}

	return nil
}
