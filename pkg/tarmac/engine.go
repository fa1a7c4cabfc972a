// Package tarmac runs statements through the SQL capability of a Tarmac host
// from inside a WebAssembly function. Requests and responses are protobuf
// payloads exchanged over waPC host calls.
package tarmac

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/sql"
	sdk "github.com/tarmac-project/sdk"
	wapc "github.com/wapc/wapc-guest-tinygo"

	"github.com/asaidimu/sqlhelper/pkg/core"
)

const (
	capabilityName = "sql"
	fnExec         = "exec"
	fnQuery        = "query"

	hostStatusOK       = int32(200)
	hostStatusPartial  = int32(206)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

var (
	// ErrInvalidQuery indicates an empty SQL statement.
	ErrInvalidQuery = errors.New("query is invalid")

	// ErrMarshalRequest wraps failures while encoding the request payload.
	ErrMarshalRequest = errors.New("failed to marshal request")

	// ErrUnmarshalResponse wraps failures while decoding the host response.
	ErrUnmarshalResponse = errors.New("failed to unmarshal response")

	// ErrDecodeRows wraps failures while decoding the returned row data.
	ErrDecodeRows = errors.New("failed to decode row data")
)

// HostCall is the waPC host function signature.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Config controls how the engine reaches the host.
type Config struct {
	// Namespace is the waPC namespace of the host. Defaults to
	// sdk.DefaultNamespace.
	Namespace string

	// HostCall overrides the waPC host function. Defaults to wapc.HostCall.
	HostCall HostCall
}

// Engine implements core.Engine over the host SQL capability. The host
// owns the connection; the engine itself holds no resources.
type Engine struct {
	runtime  sdk.RuntimeConfig
	hostCall HostCall
}

var _ core.Engine = (*Engine)(nil)

// New returns an engine for cfg.
func New(cfg Config) (*Engine, error) {
	runtime := sdk.RuntimeConfig{Namespace: cfg.Namespace}
	if runtime.Namespace == "" {
		runtime.Namespace = sdk.DefaultNamespace
	}

	hostCall := cfg.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &Engine{runtime: runtime, hostCall: hostCall}, nil
}

// NewOpener returns a core.Opener building an engine for cfg.
func NewOpener(cfg Config) core.Opener {
	return func(context.Context) (core.Engine, error) {
		return New(cfg)
	}
}

// Exec runs a statement that does not return rows.
func (e *Engine) Exec(_ context.Context, query string) (core.ExecResult, error) {
	if query == "" {
		return core.ExecResult{}, wrapError(ErrInvalidQuery, 0)
	}

	req := &proto.SQLExec{Query: []byte(query)}
	b, err := req.MarshalVT()
	if err != nil {
		return core.ExecResult{}, wrapError(errors.Join(ErrMarshalRequest, err), 0)
	}

	respBytes, callErr := e.hostCall(e.runtime.Namespace, capabilityName, fnExec, b)
	if callErr != nil && len(respBytes) == 0 {
		return core.ExecResult{}, wrapError(errors.Join(sdk.ErrHostCall, callErr), 0)
	}

	var resp proto.SQLExecResponse
	if unmarshalErr := resp.UnmarshalVT(respBytes); unmarshalErr != nil {
		return core.ExecResult{}, wrapError(invalidResponse(callErr, unmarshalErr), 0)
	}

	if statusErr := validateStatus(resp.GetStatus(), callErr); statusErr != nil {
		return core.ExecResult{}, wrapError(statusErr, resp.GetStatus().GetCode())
	}

	return core.ExecResult{
		LastInsertID: resp.GetLastInsertId(),
		RowsAffected: resp.GetRowsAffected(),
	}, nil
}

// Query runs a row producing statement. The host returns the rows as a JSON
// array of objects; values are placed in the order of the reported columns.
func (e *Engine) Query(_ context.Context, query string) (*core.RowSet, error) {
	if query == "" {
		return nil, wrapError(ErrInvalidQuery, 0)
	}

	req := &proto.SQLQuery{Query: []byte(query)}
	b, err := req.MarshalVT()
	if err != nil {
		return nil, wrapError(errors.Join(ErrMarshalRequest, err), 0)
	}

	respBytes, callErr := e.hostCall(e.runtime.Namespace, capabilityName, fnQuery, b)
	if callErr != nil && len(respBytes) == 0 {
		return nil, wrapError(errors.Join(sdk.ErrHostCall, callErr), 0)
	}

	var resp proto.SQLQueryResponse
	if unmarshalErr := resp.UnmarshalVT(respBytes); unmarshalErr != nil {
		return nil, wrapError(invalidResponse(callErr, unmarshalErr), 0)
	}

	if statusErr := validateStatus(resp.GetStatus(), callErr); statusErr != nil {
		return nil, wrapError(statusErr, resp.GetStatus().GetCode())
	}

	set, err := decodeRows(resp.GetColumns(), resp.GetData())
	if err != nil {
		return nil, wrapError(errors.Join(ErrDecodeRows, err), 0)
	}
	return set, nil
}

// Escape uses MySQL string rules.
func (e *Engine) Escape(s string) string {
	return core.Escape(s)
}

// Dialect returns the MySQL introspection statements.
func (e *Engine) Dialect() core.Dialect { return MySQLDialect{} }

// Stats reports the host routing in use; the capability exposes no server
// statistics.
func (e *Engine) Stats(context.Context) (map[string]string, error) {
	return map[string]string{
		"Namespace":  e.runtime.Namespace,
		"Capability": capabilityName,
	}, nil
}

// Close is a no-op; the host owns the connection.
func (e *Engine) Close() error {
	return nil
}

func decodeRows(columns []string, data []byte) (*core.RowSet, error) {
	var records []map[string]any
	if len(data) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&records); err != nil {
			return nil, err
		}
	}

	infos := make([]core.ColumnInfo, len(columns))
	for i, name := range columns {
		infos[i] = core.ColumnInfo{Name: name}
	}

	rows := make([][]any, len(records))
	for r, record := range records {
		values := make([]any, len(columns))
		for i, name := range columns {
			v := convertNumber(record[name])
			values[i] = v
			if infos[i].Type == "" {
				infos[i].Type = typeName(v)
			}
		}
		rows[r] = values
	}
	return core.NewRowSet(infos, rows), nil
}

// convertNumber turns JSON numbers into int64 when they are integral and
// float64 otherwise.
func convertNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// typeName guesses a column type from a decoded value; nil gives no guess.
func typeName(v any) string {
	switch v.(type) {
	case int64:
		return "INTEGER"
	case float64:
		return "REAL"
	case string:
		return "TEXT"
	case bool:
		return "BOOLEAN"
	case nil:
		return ""
	}
	return "JSON"
}

func invalidResponse(callErr, unmarshalErr error) error {
	if callErr != nil {
		return errors.Join(
			sdk.ErrHostCall,
			callErr,
			sdk.ErrHostResponseInvalid,
			ErrUnmarshalResponse,
			unmarshalErr,
		)
	}
	return errors.Join(sdk.ErrHostResponseInvalid, ErrUnmarshalResponse, unmarshalErr)
}

func validateStatus(status *sdkproto.Status, callErr error) error {
	if status == nil {
		if callErr != nil {
			return errors.Join(sdk.ErrHostCall, callErr, sdk.ErrHostResponseInvalid)
		}
		return sdk.ErrHostResponseInvalid
	}

	code := status.GetCode()
	switch code {
	case hostStatusOK, hostStatusPartial:
		return nil
	case hostStatusBadInput, hostStatusMissing, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		if callErr != nil {
			return errors.Join(sdk.ErrHostCall, callErr, sdk.ErrHostError, errors.New(detail))
		}
		return errors.Join(sdk.ErrHostError, errors.New(detail))
	default:
		statusErr := fmt.Errorf("unexpected host status code %d", code)
		if callErr != nil {
			return errors.Join(sdk.ErrHostCall, callErr, sdk.ErrHostResponseInvalid, statusErr)
		}
		return errors.Join(sdk.ErrHostResponseInvalid, statusErr)
	}
}

// wrapError attaches the host status code, when there is one, so it shows
// up as the error number.
func wrapError(err error, status int32) error {
	code := core.CodeGeneric
	if status >= hostStatusBadInput {
		code = int(status)
	}
	return &core.Error{Message: err.Error(), Code: code, Err: err}
}
