package host

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"entityscrape/internal/session"
)

//go:embed frame.schema.json
var frameSchemaSource []byte

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// CompileSchema compiles the embedded frame schema.
func CompileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("frame.schema.json", bytes.NewReader(frameSchemaSource)); err != nil {
		return nil, fmt.Errorf("loading frame schema: %w", err)
	}
	schema, err := compiler.Compile("frame.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling frame schema: %w", err)
	}
	return schema, nil
}

// Reader yields frames one line at a time. Lines that are not valid JSON
// or do not match the frame schema are logged and skipped.
type Reader struct {
	in      *bufio.Reader
	zr      *zstd.Decoder
	schema  *jsonschema.Schema
	log     *zap.Logger
	line    int
	skipped int
}

func NewReader(r io.Reader, logger *zap.Logger) (*Reader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	schema, err := CompileSchema()
	if err != nil {
		return nil, err
	}

	buffered := bufio.NewReader(r)
	reader := &Reader{schema: schema, log: logger}

	magic, err := buffered.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading frames: %w", err)
	}
	if bytes.Equal(magic, zstdMagic) {
		zr, err := zstd.NewReader(buffered)
		if err != nil {
			return nil, fmt.Errorf("opening zstd frames: %w", err)
		}
		reader.zr = zr
		reader.in = bufio.NewReader(zr)
	} else {
		reader.in = buffered
	}
	return reader, nil
}

// Next returns the next valid frame, or io.EOF once the input ends.
func (r *Reader) Next() (*Frame, error) {
	for {
		raw, err := r.in.ReadBytes('\n')
		if len(raw) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("reading frame line %d: %w", r.line+1, err)
		}
		r.line++

		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		frame, perr := r.parse(raw)
		if perr != nil {
			r.skipped++
			r.log.Warn("skipping invalid frame", zap.Int("line", r.line), zap.Error(perr))
			continue
		}
		return frame, nil
	}
}

func (r *Reader) parse(raw []byte) (*Frame, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	if err := r.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validating frame: %w", err)
	}
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	return &frame, nil
}

// Skipped reports how many lines were dropped as invalid.
func (r *Reader) Skipped() int { return r.skipped }

func (r *Reader) Close() {
	if r.zr != nil {
		r.zr.Close()
	}
}

// Submitter accepts session events.
type Submitter interface {
	Submit(ctx context.Context, ev session.Event) error
}

// Pump feeds every frame from r into s until the input ends. It returns
// the number of frames submitted.
func Pump(ctx context.Context, r *Reader, s Submitter) (int, error) {
	submitted := 0
	for {
		if err := ctx.Err(); err != nil {
			return submitted, err
		}
		frame, err := r.Next()
		if errors.Is(err, io.EOF) {
			return submitted, nil
		}
		if err != nil {
			return submitted, err
		}
		ev, err := frame.Event()
		if err != nil {
			r.log.Warn("skipping frame", zap.Int("line", r.line), zap.Error(err))
			continue
		}
		if err := s.Submit(ctx, ev); err != nil {
			return submitted, fmt.Errorf("submitting frame %d: %w", r.line, err)
		}
		submitted++
	}
}
