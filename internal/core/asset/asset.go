// Package asset models Stellar ledger assets as a closed sum type
package asset

import (
	"encoding/json"
)

// Type is the Horizon asset_type discriminator
type Type string

const (
	// TypeNative is the lumen
	TypeNative Type = "native"
	// TypeCreditAlphanum4 is an issued asset with a code of up to 4 chars
	TypeCreditAlphanum4 Type = "credit_alphanum4"
	// TypeCreditAlphanum12 is an issued asset with a code of up to 12 chars
	TypeCreditAlphanum12 Type = "credit_alphanum12"
)

// Asset is one of Native, CreditAlphanum4 or CreditAlphanum12
// the unexported marker keeps the set closed to this package
type Asset interface {
	Type() Type
	String() string
	isAsset()
}

// Native is the ledger native asset
type Native struct{}

// CreditAlphanum4 is an issued asset with a short code
type CreditAlphanum4 struct {
	Code   string
	Issuer string
}

// CreditAlphanum12 is an issued asset with a long code
type CreditAlphanum12 struct {
	Code   string
	Issuer string
}

func (Native) isAsset()           {}
func (CreditAlphanum4) isAsset()  {}
func (CreditAlphanum12) isAsset() {}

// Type returns the discriminator
func (Native) Type() Type { return TypeNative }

// Type returns the discriminator
func (CreditAlphanum4) Type() Type { return TypeCreditAlphanum4 }

// Type returns the discriminator
func (CreditAlphanum12) Type() Type { return TypeCreditAlphanum12 }

func (Native) String() string             { return string(TypeNative) }
func (a CreditAlphanum4) String() string  { return a.Code + ":" + a.Issuer }
func (a CreditAlphanum12) String() string { return a.Code + ":" + a.Issuer }

// Key is the identity of an asset used for grouping and dedup
// Code and Issuer are empty for native
type Key struct {
	Type   Type
	Code   string
	Issuer string
}

// HasCode reports whether the key carries a code/issuer pair
func (k Key) HasCode() bool { return k.Type != TypeNative }

// KeyOf derives the identity key of a
func KeyOf(a Asset) Key {
	switch v := a.(type) {
	case Native:
		return Key{Type: TypeNative}
	case CreditAlphanum4:
		return Key{Type: TypeCreditAlphanum4, Code: v.Code, Issuer: v.Issuer}
	case CreditAlphanum12:
		return Key{Type: TypeCreditAlphanum12, Code: v.Code, Issuer: v.Issuer}
	default:
		return Key{}
	}
}

// Equal reports whether a and b are the same variant with the same payload
func Equal(a, b Asset) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return KeyOf(a) == KeyOf(b)
}

// FromKey rebuilds an Asset from its identity key
func FromKey(k Key) (Asset, error) {
	switch k.Type {
	case TypeNative:
		return Native{}, nil
	case TypeCreditAlphanum4:
		return CreditAlphanum4{Code: k.Code, Issuer: k.Issuer}, nil
	case TypeCreditAlphanum12:
		return CreditAlphanum12{Code: k.Code, Issuer: k.Issuer}, nil
	default:
		return nil, &ParseError{Kind: UnknownAssetType, Value: string(k.Type)}
	}
}

// nativeWire and creditWire are the Horizon JSON encodings of an asset
// credit fields are always emitted so a parsed asset marshals back to input the parser accepts
type (
	nativeWire struct {
		AssetType Type `json:"asset_type"`
	}
	creditWire struct {
		AssetType   Type   `json:"asset_type"`
		AssetCode   string `json:"asset_code"`
		AssetIssuer string `json:"asset_issuer"`
	}
)

// MarshalJSON emits the canonical Horizon encoding
func (Native) MarshalJSON() ([]byte, error) {
	return json.Marshal(nativeWire{AssetType: TypeNative})
}

// MarshalJSON emits the canonical Horizon encoding
func (a CreditAlphanum4) MarshalJSON() ([]byte, error) {
	return json.Marshal(creditWire{AssetType: TypeCreditAlphanum4, AssetCode: a.Code, AssetIssuer: a.Issuer})
}

// MarshalJSON emits the canonical Horizon encoding
func (a CreditAlphanum12) MarshalJSON() ([]byte, error) {
	return json.Marshal(creditWire{AssetType: TypeCreditAlphanum12, AssetCode: a.Code, AssetIssuer: a.Issuer})
}
