package store

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var tDecimal = reflect.TypeOf(decimal.Decimal{})

// NewRegistry returns the default BSON registry extended so that
// decimal.Decimal round-trips through Decimal128.
func NewRegistry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeEncoder(tDecimal, bsoncodec.ValueEncoderFunc(encodeDecimal))
	reg.RegisterTypeDecoder(tDecimal, bsoncodec.ValueDecoderFunc(decodeDecimal))
	return reg
}

func encodeDecimal(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tDecimal {
		return bsoncodec.ValueEncoderError{Name: "DecimalEncodeValue", Types: []reflect.Type{tDecimal}, Received: val}
	}
	d := val.Interface().(decimal.Decimal)
	d128, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return fmt.Errorf("encode decimal %s: %w", d.String(), err)
	}
	return vw.WriteDecimal128(d128)
}

// decodeDecimal also accepts doubles, integers and strings so documents
// written by other clients still load.
func decodeDecimal(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tDecimal {
		return bsoncodec.ValueDecoderError{Name: "DecimalDecodeValue", Types: []reflect.Type{tDecimal}, Received: val}
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch vr.Type() {
	case bsontype.Decimal128:
		var d128 primitive.Decimal128
		if d128, err = vr.ReadDecimal128(); err != nil {
			return err
		}
		d, err = decimal.NewFromString(d128.String())
	case bsontype.Double:
		var f float64
		if f, err = vr.ReadDouble(); err != nil {
			return err
		}
		d = decimal.NewFromFloat(f)
	case bsontype.Int32:
		var i int32
		if i, err = vr.ReadInt32(); err != nil {
			return err
		}
		d = decimal.NewFromInt32(i)
	case bsontype.Int64:
		var i int64
		if i, err = vr.ReadInt64(); err != nil {
			return err
		}
		d = decimal.NewFromInt(i)
	case bsontype.String:
		var s string
		if s, err = vr.ReadString(); err != nil {
			return err
		}
		d, err = decimal.NewFromString(s)
	case bsontype.Null:
		if err = vr.ReadNull(); err != nil {
			return err
		}
		d = decimal.Zero
	default:
		return fmt.Errorf("cannot decode %v into decimal.Decimal", vr.Type())
	}
	if err != nil {
		return fmt.Errorf("decode decimal: %w", err)
	}

	val.Set(reflect.ValueOf(d))
	return nil
}
