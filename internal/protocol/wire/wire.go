package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danmuck/rosterctl/internal/protocol/frame"
)

// Message type IDs.
const (
	MsgCommandRequest  uint32 = 1
	MsgCommandResponse uint32 = 2
)

// Field IDs.
const (
	FieldRequestID uint16 = 1

	FieldCommand  uint16 = 100
	FieldArgs     uint16 = 101
	FieldRecord   uint16 = 102
	FieldScripted uint16 = 103

	FieldStatus uint16 = 200
	FieldBody   uint16 = 201
)

// Response status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

type ValidationError struct {
	MessageType uint32
	FieldID     uint16
	Reason      string
}

func (e ValidationError) Error() string {
	if e.FieldID == 0 {
		return fmt.Sprintf("wire: message_type=%d: %s", e.MessageType, e.Reason)
	}
	return fmt.Sprintf("wire: message_type=%d field=%d: %s", e.MessageType, e.FieldID, e.Reason)
}

type requirement struct {
	id       uint16
	typeID   uint8
	optional bool
}

var requirements = map[uint32][]requirement{
	MsgCommandRequest: {
		{id: FieldRequestID, typeID: TypeString},
		{id: FieldCommand, typeID: TypeString},
		{id: FieldArgs, typeID: TypeBytes},
		{id: FieldScripted, typeID: TypeBool},
		{id: FieldRecord, typeID: TypeBytes, optional: true},
	},
	MsgCommandResponse: {
		{id: FieldRequestID, typeID: TypeString},
		{id: FieldStatus, typeID: TypeString},
		{id: FieldBody, typeID: TypeString, optional: true},
	},
}

// Validate enforces required fields and field types for a message type.
// Unknown fields are ignored.
func Validate(messageType uint32, fields []Field) error {
	reqs, ok := requirements[messageType]
	if !ok {
		return ValidationError{MessageType: messageType, Reason: "unknown message_type"}
	}
	for _, req := range reqs {
		f, found := Lookup(fields, req.id)
		if !found {
			if req.optional {
				continue
			}
			return ValidationError{MessageType: messageType, FieldID: req.id, Reason: "missing required field"}
		}
		if f.Type != req.typeID {
			return ValidationError{MessageType: messageType, FieldID: req.id, Reason: "type mismatch"}
		}
	}
	return nil
}

// CommandRequest is one forwarded command on the wire.
type CommandRequest struct {
	RequestID string
	Command   string
	Args      []string
	Record    []byte
	Scripted  bool
}

func (r CommandRequest) Validate() error {
	if strings.TrimSpace(r.RequestID) == "" {
		return ValidationError{MessageType: MsgCommandRequest, FieldID: FieldRequestID, Reason: "missing request_id"}
	}
	if strings.TrimSpace(r.Command) == "" {
		return ValidationError{MessageType: MsgCommandRequest, FieldID: FieldCommand, Reason: "missing command"}
	}
	return nil
}

// CommandResponse is the server's answer to one request.
type CommandResponse struct {
	RequestID string
	Status    string
	Body      string
}

func (r CommandResponse) Validate() error {
	if strings.TrimSpace(r.RequestID) == "" {
		return ValidationError{MessageType: MsgCommandResponse, FieldID: FieldRequestID, Reason: "missing request_id"}
	}
	if r.Status != StatusOK && r.Status != StatusError {
		return ValidationError{MessageType: MsgCommandResponse, FieldID: FieldStatus, Reason: "invalid status"}
	}
	return nil
}

func EncodeRequestFrame(messageID uint64, req CommandRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	args := req.Args
	if args == nil {
		args = []string{}
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}

	payload := AppendString(nil, FieldRequestID, req.RequestID)
	payload = AppendString(payload, FieldCommand, req.Command)
	payload = AppendBytes(payload, FieldArgs, argsJSON)
	payload = AppendBool(payload, FieldScripted, req.Scripted)
	if len(req.Record) > 0 {
		payload = AppendBytes(payload, FieldRecord, req.Record)
	}

	var buf bytes.Buffer
	err = frame.WriteFrame(&buf, frame.Frame{
		Header: frame.Header{
			MessageID:   messageID,
			MessageType: MsgCommandRequest,
		},
		Payload: payload,
	}, frame.DefaultLimits())
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeRequestFrame(f frame.Frame) (CommandRequest, error) {
	if f.Header.MessageType != MsgCommandRequest {
		return CommandRequest{}, ValidationError{MessageType: f.Header.MessageType, Reason: "not a command request"}
	}
	fields, err := ParseFields(f.Payload)
	if err != nil {
		return CommandRequest{}, err
	}
	if err := Validate(MsgCommandRequest, fields); err != nil {
		return CommandRequest{}, err
	}

	req := CommandRequest{
		RequestID: lookupString(fields, FieldRequestID),
		Command:   lookupString(fields, FieldCommand),
	}
	argsField, _ := Lookup(fields, FieldArgs)
	if err := json.Unmarshal(argsField.Value, &req.Args); err != nil {
		return CommandRequest{}, ValidationError{MessageType: MsgCommandRequest, FieldID: FieldArgs, Reason: "malformed args"}
	}
	scriptedField, _ := Lookup(fields, FieldScripted)
	if req.Scripted, err = scriptedField.AsBool(); err != nil {
		return CommandRequest{}, err
	}
	if recField, ok := Lookup(fields, FieldRecord); ok {
		req.Record = recField.Value
	}
	return req, req.Validate()
}

func EncodeResponseFrame(messageID uint64, resp CommandResponse) ([]byte, error) {
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	payload := AppendString(nil, FieldRequestID, resp.RequestID)
	payload = AppendString(payload, FieldStatus, resp.Status)
	if resp.Body != "" {
		payload = AppendString(payload, FieldBody, resp.Body)
	}

	flags := frame.FlagIsResponse
	if resp.Status == StatusError {
		flags |= frame.FlagIsError
	}
	var buf bytes.Buffer
	err := frame.WriteFrame(&buf, frame.Frame{
		Header: frame.Header{
			MessageID:   messageID,
			MessageType: MsgCommandResponse,
			Flags:       flags,
		},
		Payload: payload,
	}, frame.DefaultLimits())
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeResponseFrame(f frame.Frame) (CommandResponse, error) {
	if f.Header.MessageType != MsgCommandResponse {
		return CommandResponse{}, ValidationError{MessageType: f.Header.MessageType, Reason: "not a command response"}
	}
	fields, err := ParseFields(f.Payload)
	if err != nil {
		return CommandResponse{}, err
	}
	if err := Validate(MsgCommandResponse, fields); err != nil {
		return CommandResponse{}, err
	}
	resp := CommandResponse{
		RequestID: lookupString(fields, FieldRequestID),
		Status:    lookupString(fields, FieldStatus),
		Body:      lookupString(fields, FieldBody),
	}
	return resp, resp.Validate()
}

func lookupString(fields []Field, id uint16) string {
	f, _ := Lookup(fields, id)
	return string(f.Value)
}
