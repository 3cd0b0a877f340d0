package optional

import (
	"bytes"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Value is either resolved (holding a value, which may be the zero value)
// or unresolved. The zero Value is unresolved.
type Value[T any] struct {
	val T
	ok  bool
}

func Some[T any](v T) Value[T] {
	return Value[T]{val: v, ok: true}
}

func None[T any]() Value[T] {
	return Value[T]{}
}

func (v Value[T]) Get() (T, bool) {
	return v.val, v.ok
}

func (v Value[T]) Resolved() bool {
	return v.ok
}

// OrElse returns the held value or d when unresolved.
func (v Value[T]) OrElse(d T) T {
	if !v.ok {
		return d
	}
	return v.val
}

// Or returns v when resolved, otherwise other.
func (v Value[T]) Or(other Value[T]) Value[T] {
	if v.ok {
		return v
	}
	return other
}

var jsonNull = []byte("null")

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return jsonNull, nil
	}
	return json.Marshal(v.val)
}

func (v *Value[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		*v = None[T]()
		return nil
	}

	var val T
	if err := json.Unmarshal(b, &val); err != nil {
		return err
	}

	*v = Some(val)
	return nil
}

func (v Value[T]) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	if !v.ok {
		return &types.AttributeValueMemberNULL{Value: true}, nil
	}
	return attributevalue.Marshal(v.val)
}

func (v *Value[T]) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	if _, null := av.(*types.AttributeValueMemberNULL); null || av == nil {
		*v = None[T]()
		return nil
	}

	var val T
	if err := attributevalue.Unmarshal(av, &val); err != nil {
		return err
	}

	*v = Some(val)
	return nil
}
