package util

import (
	"encoding/binary"
	"github.com/pkg/errors"
	"math"
	"reflect"
	"unicode/utf8"
)

type Datatype int

const (
	DatatypeByte Datatype = iota
	DatatypeInt16
	DatatypeInt32
	DatatypeInt64
	DatatypeFloat32
	DatatypeFloat64
)

// Size returns the number of bytes a value of this datatype occupies in little-endian encoding.
func (d Datatype) Size() int {
	switch d {
	case DatatypeByte:
		return 1
	case DatatypeInt16:
		return 2
	case DatatypeInt32, DatatypeFloat32:
		return 4
	case DatatypeInt64, DatatypeFloat64:
		return 8
	}
	return -1
}

// ErrUnexpectedEnd is returned (wrapped) when the data ends in the middle of an item.
var ErrUnexpectedEnd = errors.New("Unexpected end of binary data")

type BinaryItem interface {
	Write(object any, data []byte, index int) (int, error)
	Read(object any, data []byte, index int) (int, error)
	Size(object any) int
}

type BinarySchema struct {
	Items []BinaryItem // All items of this object schema. They are written and read in the given order.
}

func (b *BinarySchema) Write(object any, data []byte, index int) (int, error) {
	var err error

	for _, item := range b.Items {
		index, err = item.Write(object, data, index)
		if err != nil {
			return -1, err
		}
	}

	return index, nil
}

func (b *BinarySchema) Read(object any, data []byte, index int) (int, error) {
	var err error

	for _, item := range b.Items {
		index, err = item.Read(object, data, index)
		if err != nil {
			return -1, err
		}
	}

	return index, nil
}

// Size returns the amount of bytes the given object needs when written with this schema.
func (b *BinarySchema) Size(object any) int {
	size := 0
	for _, item := range b.Items {
		size += item.Size(object)
	}
	return size
}

// Marshal allocates a buffer of the exact size and writes the object into it.
func (b *BinarySchema) Marshal(object any) ([]byte, error) {
	data := make([]byte, b.Size(object))
	_, err := b.Write(object, data, 0)
	if err != nil {
		return nil, err
	}
	return data, nil
}

type BinaryDataItem struct {
	FieldName  string   // Name of the golang struct field.
	BinaryType Datatype // Type this field should be stored to. This has to be compatible with the FieldType.
}

func (b *BinaryDataItem) Write(object any, data []byte, index int) (int, error) {
	field := reflect.Indirect(reflect.ValueOf(object)).FieldByName(b.FieldName)
	if index+b.BinaryType.Size() > len(data) {
		return -1, errors.Errorf("Buffer too small to write field %s at index %d", b.FieldName, index)
	}
	return writeBinaryValue(b.BinaryType, b.FieldName, field, data, index)
}

func (b *BinaryDataItem) Read(object any, data []byte, index int) (int, error) {
	field := reflect.Indirect(reflect.ValueOf(object)).FieldByName(b.FieldName)
	if index+b.BinaryType.Size() > len(data) {
		return -1, errors.Wrapf(ErrUnexpectedEnd, "Field %s needs %d bytes at index %d but only %d are left", b.FieldName, b.BinaryType.Size(), index, len(data)-index)
	}
	return readBinaryValue(b.BinaryType, b.FieldName, field, data, index)
}

func (b *BinaryDataItem) Size(object any) int {
	return b.BinaryType.Size()
}

// BinaryStringItem stores a UTF-8 string with a one byte length prefix. Strings therefore can't be longer than 255 bytes.
type BinaryStringItem struct {
	FieldName string // Name of the golang string field.
}

func (b *BinaryStringItem) Write(object any, data []byte, index int) (int, error) {
	value := reflect.Indirect(reflect.ValueOf(object)).FieldByName(b.FieldName).String()
	if len(value) > math.MaxUint8 {
		return -1, errors.Errorf("String field %s has %d bytes but at most %d are supported", b.FieldName, len(value), math.MaxUint8)
	}
	if index+1+len(value) > len(data) {
		return -1, errors.Errorf("Buffer too small to write field %s at index %d", b.FieldName, index)
	}

	data[index] = byte(len(value))
	index++
	index += copy(data[index:], value)

	return index, nil
}

func (b *BinaryStringItem) Read(object any, data []byte, index int) (int, error) {
	if index >= len(data) {
		return -1, errors.Wrapf(ErrUnexpectedEnd, "Length of field %s expected at index %d", b.FieldName, index)
	}

	length := int(data[index])
	index++

	if index+length > len(data) {
		return -1, errors.Wrapf(ErrUnexpectedEnd, "Field %s has length %d but only %d bytes are left", b.FieldName, length, len(data)-index)
	}

	raw := data[index : index+length]
	if !utf8.Valid(raw) {
		return -1, errors.Errorf("Field %s at index %d is not valid UTF-8", b.FieldName, index)
	}

	reflect.Indirect(reflect.ValueOf(object)).FieldByName(b.FieldName).SetString(string(raw))

	return index + length, nil
}

func (b *BinaryStringItem) Size(object any) int {
	return 1 + len(reflect.Indirect(reflect.ValueOf(object)).FieldByName(b.FieldName).String())
}

func writeBinaryValue(binaryType Datatype, fieldName string, value reflect.Value, data []byte, index int) (int, error) {
	switch binaryType {
	case DatatypeByte:
		data[index] = byte(getUint64FromValue(value))
	case DatatypeInt16:
		binary.LittleEndian.PutUint16(data[index:], uint16(getUint64FromValue(value)))
	case DatatypeInt32:
		binary.LittleEndian.PutUint32(data[index:], uint32(getUint64FromValue(value)))
	case DatatypeInt64:
		binary.LittleEndian.PutUint64(data[index:], getUint64FromValue(value))
	case DatatypeFloat32:
		binary.LittleEndian.PutUint32(data[index:], math.Float32bits(float32(value.Float())))
	case DatatypeFloat64:
		binary.LittleEndian.PutUint64(data[index:], math.Float64bits(value.Float()))
	default:
		return -1, errors.Errorf("Unsupported datatype %d for field %s", binaryType, fieldName)
	}
	return index + binaryType.Size(), nil
}

func readBinaryValue(binaryType Datatype, fieldName string, value reflect.Value, data []byte, index int) (int, error) {
	var raw uint64
	switch binaryType {
	case DatatypeByte:
		raw = uint64(data[index])
	case DatatypeInt16:
		raw = uint64(binary.LittleEndian.Uint16(data[index:]))
	case DatatypeInt32:
		raw = uint64(binary.LittleEndian.Uint32(data[index:]))
	case DatatypeInt64:
		raw = binary.LittleEndian.Uint64(data[index:])
	case DatatypeFloat32:
		value.SetFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(data[index:]))))
		return index + 4, nil
	case DatatypeFloat64:
		value.SetFloat(math.Float64frombits(binary.LittleEndian.Uint64(data[index:])))
		return index + 8, nil
	default:
		return -1, errors.Errorf("Unsupported datatype %d for field %s", binaryType, fieldName)
	}

	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		value.SetInt(int64(raw))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		value.SetUint(raw)
	default:
		return -1, errors.Errorf("Field %s of kind %s can't hold an integer datatype", fieldName, value.Kind().String())
	}

	return index + binaryType.Size(), nil
}

func getUint64FromValue(value reflect.Value) uint64 {
	if value.Kind() == reflect.Int ||
		value.Kind() == reflect.Int8 ||
		value.Kind() == reflect.Int16 ||
		value.Kind() == reflect.Int32 ||
		value.Kind() == reflect.Int64 {
		return uint64(value.Int())
	} else if value.Kind() == reflect.Uint ||
		value.Kind() == reflect.Uint8 ||
		value.Kind() == reflect.Uint16 ||
		value.Kind() == reflect.Uint32 ||
		value.Kind() == reflect.Uint64 {
		return value.Uint()
	}
	panic("Unsupported value type " + value.Kind().String() + " to convert to uint.")
}
