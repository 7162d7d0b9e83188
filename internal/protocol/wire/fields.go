package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const fieldHeaderLen = 7

var (
	ErrShortFieldHeader = errors.New("wire: short field header")
	ErrShortFieldValue  = errors.New("wire: short field value")
)

// Field value type IDs.
const (
	TypeBool   uint8 = 1
	TypeU64    uint8 = 2
	TypeString uint8 = 3
	TypeBytes  uint8 = 4
)

// Field is one encoded payload field: id(2) type(1) len(4) value.
type Field struct {
	ID    uint16
	Type  uint8
	Value []byte
}

// AppendField appends one encoded field to dst.
func AppendField(dst []byte, f Field) []byte {
	var hdr [fieldHeaderLen]byte
	binary.BigEndian.PutUint16(hdr[0:2], f.ID)
	hdr[2] = f.Type
	binary.BigEndian.PutUint32(hdr[3:7], uint32(len(f.Value)))
	dst = append(dst, hdr[:]...)
	return append(dst, f.Value...)
}

func AppendString(dst []byte, id uint16, v string) []byte {
	return AppendField(dst, Field{ID: id, Type: TypeString, Value: []byte(v)})
}

func AppendBytes(dst []byte, id uint16, v []byte) []byte {
	return AppendField(dst, Field{ID: id, Type: TypeBytes, Value: v})
}

func AppendBool(dst []byte, id uint16, v bool) []byte {
	b := byte(0)
	if v {
		b = 1
	}
	return AppendField(dst, Field{ID: id, Type: TypeBool, Value: []byte{b}})
}

func AppendU64(dst []byte, id uint16, v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return AppendField(dst, Field{ID: id, Type: TypeU64, Value: buf[:]})
}

// ParseFields decodes every field in payload in order.
func ParseFields(payload []byte) ([]Field, error) {
	fields := make([]Field, 0)
	for i := 0; i < len(payload); {
		if len(payload)-i < fieldHeaderLen {
			return nil, ErrShortFieldHeader
		}
		id := binary.BigEndian.Uint16(payload[i : i+2])
		typeID := payload[i+2]
		l := int(binary.BigEndian.Uint32(payload[i+3 : i+7]))
		i += fieldHeaderLen
		if len(payload)-i < l {
			return nil, ErrShortFieldValue
		}
		val := make([]byte, l)
		copy(val, payload[i:i+l])
		i += l
		fields = append(fields, Field{ID: id, Type: typeID, Value: val})
	}
	return fields, nil
}

// Lookup returns the first field with the given id.
func Lookup(fields []Field, id uint16) (Field, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

func (f Field) AsBool() (bool, error) {
	if f.Type != TypeBool || len(f.Value) != 1 {
		return false, fmt.Errorf("wire: field %d is not a bool", f.ID)
	}
	return f.Value[0] != 0, nil
}

func (f Field) AsU64() (uint64, error) {
	if f.Type != TypeU64 || len(f.Value) != 8 {
		return 0, fmt.Errorf("wire: field %d is not a u64", f.ID)
	}
	return binary.BigEndian.Uint64(f.Value), nil
}
