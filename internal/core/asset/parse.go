package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParseErrorKind classifies a parse failure
type ParseErrorKind uint8

const (
	// MissingField means a required string field was absent or not a string
	MissingField ParseErrorKind = iota + 1
	// UnknownAssetType means asset_type held a value outside the known set
	UnknownAssetType
)

// sentinels for errors.Is matching
var (
	ErrMissingField     = errors.New("asset: missing field")
	ErrUnknownAssetType = errors.New("asset: unknown asset type")
)

// ParseError describes why a JSON object is not a valid asset
type ParseError struct {
	Kind  ParseErrorKind
	Field string // set for MissingField
	Value string // set for UnknownAssetType
	Err   error  // set when the input was not a JSON object at all
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case MissingField:
		if e.Err != nil {
			return fmt.Sprintf("asset: missing field %q: %v", e.Field, e.Err)
		}
		return fmt.Sprintf("asset: missing field %q", e.Field)
	case UnknownAssetType:
		return fmt.Sprintf("asset: unknown asset_type %q", e.Value)
	default:
		return "asset: parse error"
	}
}

// Is matches the package sentinels
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrMissingField:
		return e.Kind == MissingField
	case ErrUnknownAssetType:
		return e.Kind == UnknownAssetType
	}
	return false
}

// Unwrap returns the decode cause, if any
func (e *ParseError) Unwrap() error { return e.Err }

const (
	fieldType   = "asset_type"
	fieldCode   = "asset_code"
	fieldIssuer = "asset_issuer"
)

// Parse converts an untyped JSON object into an Asset
func Parse(v map[string]any) (Asset, error) {
	t, ok := str(v, fieldType)
	if !ok {
		return nil, &ParseError{Kind: MissingField, Field: fieldType}
	}
	switch Type(t) {
	case TypeNative:
		return Native{}, nil
	case TypeCreditAlphanum4:
		code, issuer, err := credit(v)
		if err != nil {
			return nil, err
		}
		return CreditAlphanum4{Code: code, Issuer: issuer}, nil
	case TypeCreditAlphanum12:
		code, issuer, err := credit(v)
		if err != nil {
			return nil, err
		}
		return CreditAlphanum12{Code: code, Issuer: issuer}, nil
	default:
		return nil, &ParseError{Kind: UnknownAssetType, Value: t}
	}
}

// ParseRaw decodes raw JSON bytes and parses them as an asset
// input that is not a JSON object is reported as a missing asset_type
func ParseRaw(raw json.RawMessage) (Asset, error) {
	var m map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, &ParseError{Kind: MissingField, Field: fieldType, Err: err}
		}
	}
	return Parse(m)
}

func credit(v map[string]any) (code, issuer string, err error) {
	code, ok := str(v, fieldCode)
	if !ok {
		return "", "", &ParseError{Kind: MissingField, Field: fieldCode}
	}
	issuer, ok = str(v, fieldIssuer)
	if !ok {
		return "", "", &ParseError{Kind: MissingField, Field: fieldIssuer}
	}
	return code, issuer, nil
}

// str reads a string field, nil maps read as empty
func str(v map[string]any, name string) (string, bool) {
	raw, ok := v[name]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

// FromString parses the canonical String form, "native" or "CODE:ISSUER"
// the variant is chosen from the code length
func FromString(s string) (Asset, error) {
	if s == string(TypeNative) {
		return Native{}, nil
	}
	i := strings.IndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return nil, &ParseError{Kind: UnknownAssetType, Value: s}
	}
	code, issuer := s[:i], s[i+1:]
	switch {
	case len(code) <= 4:
		return CreditAlphanum4{Code: code, Issuer: issuer}, nil
	case len(code) <= 12:
		return CreditAlphanum12{Code: code, Issuer: issuer}, nil
	default:
		return nil, &ParseError{Kind: UnknownAssetType, Value: s}
	}
}
