package ch

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/go-faster/city"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chctl/ch-native/compress"
	"github.com/chctl/ch-native/otelch"
	"github.com/chctl/ch-native/proto"
)

// drainTimeout bounds how long cancelQuery waits for the server to
// acknowledge a Cancel with a terminal EndOfStream/Exception before
// giving up on the connection.
const drainTimeout = 5 * time.Second

// cancelQuery sends a best-effort Cancel for the in-flight query, then
// drains inbound messages until a terminal EndOfStream or Exception
// arrives, bounded by drainTimeout. A session that drains cleanly
// returns to Idle and is reused for the next query; one that times out,
// or hits a write/read error along the way, is retired, since those are
// the only cases where the connection's state is genuinely unknown.
func (c *Client) cancelQuery() error {
	c.lg.Warn("Cancel query")

	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	// Not using c.writer's buffer to prevent a data race with the
	// sender goroutine.
	b := proto.Buffer{Buf: make([]byte, 0, 1)}
	proto.ClientCodeCancel.Encode(&b)
	if err := c.flushBuf(ctx, &b); err != nil {
		_ = c.Close()
		return errors.Wrap(err, "flush cancel")
	}

	if err := c.drainCancelled(ctx); err != nil {
		_ = c.Close()
		return errors.Wrap(err, "drain")
	}
	return nil
}

// discardBlock is the decode handler used while draining: every Data,
// Totals and Extremes block is parsed (to keep the reader in sync with
// the stream) and then thrown away, since the caller already observed
// the query as cancelled rather than successful.
func discardBlock(context.Context, proto.Block) error { return nil }

// drainCancelled reads server messages after a Cancel until a terminal
// EndOfStream or Exception arrives, or ctx's drain deadline elapses.
func (c *Client) drainCancelled(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "drain deadline")
		}
		code, err := c.packet(ctx)
		if err != nil {
			return errors.Wrap(err, "packet")
		}
		switch code {
		case proto.ServerCodeEndOfStream:
			return nil
		case proto.ServerCodeException:
			if _, err := c.exception(); err != nil {
				return errors.Wrap(err, "decode exception")
			}
			return nil
		case proto.ServerCodeData, proto.ServerCodeTotals, proto.ServerCodeExtremes:
			if err := c.decodeBlock(ctx, decodeOptions{
				Handler:      discardBlock,
				Compressible: code.Compressible(),
			}); err != nil {
				return errors.Wrap(err, "decode block")
			}
		case proto.ServerCodeProgress:
			if _, err := c.progress(); err != nil {
				return errors.Wrap(err, "progress")
			}
		case proto.ServerCodeProfile:
			if _, err := c.profile(); err != nil {
				return errors.Wrap(err, "profile")
			}
		case proto.ServerCodeTableColumns:
			var info proto.TableColumns
			if err := c.decode(&info); err != nil {
				return errors.Wrap(err, "table columns")
			}
		case proto.ServerProfileEvents:
			var data proto.ProfileEvents
			if err := c.decodeBlock(ctx, decodeOptions{
				Handler:      discardBlock,
				Compressible: code.Compressible(),
				Result:       data.Result(),
			}); err != nil {
				return errors.Wrap(err, "decode block")
			}
		case proto.ServerCodeLog:
			var data proto.Logs
			if err := c.decodeBlock(ctx, decodeOptions{
				Handler:      discardBlock,
				Compressible: code.Compressible(),
				Result:       data.Result(),
			}); err != nil {
				return errors.Wrap(err, "decode block")
			}
		case proto.ServerCodePartUUIDs:
			var info proto.PartUUIDs
			if err := info.Decode(c.reader); err != nil {
				return errors.Wrap(err, "part uuids")
			}
		default:
			return errors.Errorf("unexpected packet %q while draining", code)
		}
	}
}

func (c *Client) querySettings(q Query) []proto.Setting {
	var result []proto.Setting
	for _, s := range c.settings {
		result = append(result, proto.Setting{Key: s.Key, Value: s.Value, Important: s.Important})
	}
	for _, s := range q.Settings {
		result = append(result, proto.Setting{Key: s.Key, Value: s.Value, Important: s.Important})
	}
	return result
}

// sendQuery writes the Query message and its trailing empty Data block.
func (c *Client) sendQuery(ctx context.Context, q Query) error {
	if ce := c.lg.Check(zap.DebugLevel, "sendQuery"); ce != nil {
		ce.Write(
			zap.String("query", q.Body),
			zap.String("query_id", q.QueryID),
		)
	}
	if c.IsClosed() {
		return ErrClosed
	}
	c.encode(proto.Query{
		ID:          q.QueryID,
		Body:        q.Body,
		Secret:      q.Secret,
		Stage:       proto.StageComplete,
		Compression: c.compression,
		Settings:    c.querySettings(q),
		Parameters:  q.Parameters,
		Info: proto.ClientInfo{
			ProtocolVersion: c.protocolVersion,
			Major:           c.version.Major,
			Minor:           c.version.Minor,
			Patch:           c.version.Patch,
			Interface:       proto.InterfaceTCP,
			Query:           proto.ClientQueryInitial,

			InitialUser:    q.InitialUser,
			InitialQueryID: q.QueryID,
			InitialAddress: c.conn.LocalAddr().String(),
			ClientHostname: "",
			ClientName:     c.version.Name,

			Span:     trace.SpanContextFromContext(ctx),
			QuotaKey: q.QuotaKey,
		},
	})

	if len(q.ExternalData) > 0 {
		if q.ExternalTable == "" {
			q.ExternalTable = "_data"
		}
		if err := c.encodeBlock(ctx, q.ExternalTable, q.ExternalData); err != nil {
			return errors.Wrap(err, "external data")
		}
	}
	if err := c.encodeBlankBlock(ctx); err != nil {
		return errors.Wrap(err, "external data end")
	}
	return nil
}

// Query describes one request/response round trip against the server.
type Query struct {
	// Body of query, like "SELECT 1".
	Body string
	// QueryID is ID of query, defaults to new UUIDv4.
	QueryID string
	// QuotaKey of query, optional.
	QuotaKey string

	// Input columns for INSERT operations.
	Input proto.Input
	// OnInput is called to allow ingesting more data to Input.
	//
	// Every block already encoded from Input has been flushed to the
	// connection before OnInput is called, so OnInput may reset and
	// refill Input's columns.
	//
	// io.EOF reports that no more input should be ingested.
	//
	// Optional, single block is ingested from Input if not provided,
	// but the query fails if Input is set but has zero rows.
	OnInput func(ctx context.Context) error

	// Result columns for SELECT operations, or a *proto.ColInfoInput to
	// discover the server's reply schema without decoding values.
	Result proto.ResultSet
	// OnResult is called when Result is filled with a result block.
	//
	// Optional, but the query fails if more than one block is received
	// and no OnResult is provided.
	OnResult func(ctx context.Context, block proto.Block) error

	// OnProgress is an optional progress handler. Progress values are
	// deltas, so accumulate them if a running total is needed.
	OnProgress func(ctx context.Context, p proto.Progress) error
	// OnProfile is an optional handler for profiling data.
	OnProfile func(ctx context.Context, p proto.Profile) error
	// OnProfileEvents is an optional handler for profile-event batches.
	OnProfileEvents func(ctx context.Context, e []proto.ProfileEvent) error
	// OnLogs is an optional handler for server log batches.
	OnLogs func(ctx context.Context, l []proto.Log) error

	// Settings are optional query-scoped settings, overriding client
	// settings of the same key.
	Settings []Setting

	// Parameters are EXPERIMENTAL typed query parameters.
	Parameters []proto.Parameter

	// Secret is an optional inter-server per-cluster secret for
	// Distributed queries.
	Secret string

	// InitialUser is an optional initial user for Distributed queries.
	InitialUser string

	// ExternalData is optional data for the server to load as a
	// temporary table.
	ExternalData []proto.InputColumn
	// ExternalTable names the external data table; defaults to "_data".
	ExternalTable string

	// Logger overrides the client logger for this query only, defaults
	// to the client logger with a query_id field.
	Logger *zap.Logger
}

// CorruptedDataErr is returned when a compressed block's checksum does
// not match its content.
type CorruptedDataErr struct {
	Actual    city.U128
	Reference city.U128
	RawSize   int
	DataSize  int
}

func (c *CorruptedDataErr) Error() string {
	return fmt.Sprintf("corrupted data: %s (actual), %s (reference), compressed size: %d, data size: %d",
		compress.FormatU128(c.Actual), compress.FormatU128(c.Reference), c.RawSize, c.DataSize,
	)
}

type decodeOptions struct {
	Handler         func(ctx context.Context, b proto.Block) error
	Result          proto.ResultSet
	ProtocolVersion int
	Compressible    bool
}

func (c *Client) decodeBlock(ctx context.Context, opt decodeOptions) error {
	if opt.ProtocolVersion == 0 {
		opt.ProtocolVersion = c.protocolVersion
	}
	if proto.FeatureTempTables.In(opt.ProtocolVersion) {
		v, err := c.reader.Str()
		if err != nil {
			return errors.Wrap(err, "temp table")
		}
		if v != "" {
			return errors.Errorf("unexpected temp table %q", v)
		}
	}
	if c.compression == proto.CompressionEnabled && opt.Compressible {
		c.reader.EnableCompression()
		defer c.reader.DisableCompression()
	}
	block, err := proto.DecodeBlock(c.reader, opt.ProtocolVersion, opt.Result)
	if err != nil {
		var badData *compress.CorruptedDataErr
		if errors.As(err, &badData) {
			exportedErr := CorruptedDataErr(*badData)
			return errors.Wrap(&exportedErr, "bad block")
		}
		return errors.Wrap(err, "decode block")
	}
	if ce := c.lg.Check(zap.DebugLevel, "Block"); ce != nil {
		ce.Write(
			zap.Int("rows", block.Rows),
			zap.Int("columns", block.Columns),
		)
	}
	if block.End() {
		return nil
	}
	c.metricsInc(ctx, queryMetrics{
		BlocksReceived:  1,
		RowsReceived:    block.Rows,
		ColumnsReceived: block.Columns,
	})
	if err := opt.Handler(ctx, block); err != nil {
		return errors.Wrap(err, "handler")
	}
	return nil
}

// encodeBlock encodes one Data block, compressing it if the session
// negotiated compression. A nil/empty input encodes the blank "end of
// data" sentinel block.
func (c *Client) encodeBlock(ctx context.Context, tableName string, input []proto.InputColumn) error {
	c.writer.ChainBuffer(func(buf *proto.Buffer) {
		proto.ClientCodeData.Encode(buf)
		proto.ClientData{TableName: tableName}.EncodeAware(buf, c.protocolVersion)
	})

	if len(input) > 0 {
		c.metricsInc(ctx, queryMetrics{BlocksSent: 1})
	}

	if c.compression == proto.CompressionDisabled {
		return proto.WriteBlock(c.writer, c.protocolVersion, proto.Input(input))
	}

	var rerr error
	c.writer.ChainBuffer(func(buf *proto.Buffer) {
		start := len(buf.Buf)
		if err := proto.EncodeBlock(buf, c.protocolVersion, proto.Input(input)); err != nil {
			rerr = errors.Wrap(err, "encode")
			return
		}
		data := buf.Buf[start:]
		if err := c.compressor.Compress(data); err != nil {
			rerr = errors.Wrap(err, "compress")
			return
		}
		buf.Buf = append(buf.Buf[:start], c.compressor.Data...)
	})
	return rerr
}

func (c *Client) encodeBlankBlock(ctx context.Context) error {
	return c.encodeBlock(ctx, "", nil)
}

func (c *Client) sendInput(ctx context.Context, info proto.ColInfoInput, q Query) error {
	if len(q.Input) == 0 {
		return nil
	}

	var inferenceColumns map[string]proto.ColumnType
	inferenceDebug := c.lg.Check(zap.DebugLevel, "Inferring columns")
	if inferenceDebug != nil {
		inferenceColumns = make(map[string]proto.ColumnType, len(info))
	}
	for _, v := range info {
		for _, inCol := range q.Input {
			infer, ok := inCol.Data.(proto.Inferable)
			if !ok || inCol.Name != v.Name {
				continue
			}
			if inferenceDebug != nil {
				inferenceColumns[inCol.Name] = v.Type
			}
			if err := infer.Infer(v.Type); err != nil {
				return errors.Wrapf(err, "infer %q %q", inCol.Name, v.Type)
			}
		}
	}
	if inferenceDebug != nil && len(inferenceColumns) > 0 {
		inferenceDebug.Write(zap.Any("columns", inferenceColumns))
	}

	rows := q.Input[0].Data.Rows()
	f := q.OnInput
	if f != nil && rows == 0 {
		if err := f(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				goto End
			}
			return errors.Wrap(err, "input")
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "context")
		}
		if err := c.encodeBlock(ctx, "", q.Input); err != nil {
			return errors.Wrap(err, "write block")
		}
		if f == nil {
			break
		}
		if err := c.flush(ctx); err != nil {
			return errors.Wrap(err, "flush")
		}
		if err := f(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				if tailRows := q.Input[0].Data.Rows(); tailRows > 0 {
					if ce := c.lg.Check(zap.DebugLevel, "Writing tail of input data"); ce != nil {
						ce.Write(zap.Int("rows", tailRows))
					}
					f = nil
					continue
				}
				break
			}
			return errors.Wrap(err, "next input (server already persisted previous blocks)")
		}
	}
End:
	if err := c.encodeBlankBlock(ctx); err != nil {
		return errors.Wrap(err, "write end of data")
	}
	return nil
}

func (c *Client) resultHandler(q Query) func(ctx context.Context, b proto.Block) error {
	if q.OnResult != nil {
		return q.OnResult
	}
	first := true
	return func(ctx context.Context, block proto.Block) error {
		if !first {
			return errors.New("no OnResult provided")
		}
		if block.Rows > 0 {
			first = false
		}
		return nil
	}
}

func (c *Client) handlePacket(ctx context.Context, p proto.ServerCode, q Query) error {
	switch p {
	case proto.ServerCodeException:
		e, err := c.exception()
		if err != nil {
			return errors.Wrap(err, "decode exception")
		}
		return e
	case proto.ServerCodeProgress:
		pr, err := c.progress()
		if err != nil {
			return errors.Wrap(err, "progress")
		}
		c.metricsInc(ctx, queryMetrics{Rows: int(pr.Rows), Bytes: int(pr.Bytes)})
		if ce := c.lg.Check(zap.DebugLevel, "Progress"); ce != nil {
			ce.Write(
				zap.Uint64("rows", pr.Rows),
				zap.Uint64("total_rows", pr.TotalRows),
				zap.Uint64("bytes", pr.Bytes),
				zap.Uint64("wrote_bytes", pr.WroteBytes),
				zap.Uint64("wrote_rows", pr.WroteRows),
			)
		}
		if f := q.OnProgress; f != nil {
			if err := f(ctx, pr); err != nil {
				return errors.Wrap(err, "progress")
			}
		}
		return nil
	case proto.ServerCodeProfile:
		pf, err := c.profile()
		if err != nil {
			return errors.Wrap(err, "profile")
		}
		if ce := c.lg.Check(zap.DebugLevel, "Profile"); ce != nil {
			ce.Write(
				zap.Uint64("rows", pf.Rows),
				zap.Uint64("bytes", pf.Bytes),
				zap.Uint64("blocks", pf.Blocks),
			)
		}
		if f := q.OnProfile; f != nil {
			if err := f(ctx, pf); err != nil {
				return errors.Wrap(err, "profile")
			}
		}
		return nil
	case proto.ServerCodeTableColumns:
		var info proto.TableColumns
		if err := c.decode(&info); err != nil {
			return errors.Wrap(err, "table columns")
		}
		return nil
	case proto.ServerProfileEvents:
		var data proto.ProfileEvents
		onResult := func(ctx context.Context, b proto.Block) error {
			ce := c.lg.Check(zap.DebugLevel, "ProfileEvents")
			if ce == nil && q.OnProfileEvents == nil {
				return nil
			}
			events := data.All()
			if f := q.OnProfileEvents; f != nil {
				if err := f(ctx, events); err != nil {
					return errors.Wrap(err, "profile events")
				}
			}
			if ce != nil {
				ce.Write(zap.Any("events", events))
			}
			return nil
		}
		if err := c.decodeBlock(ctx, decodeOptions{
			Handler:      onResult,
			Compressible: p.Compressible(),
			Result:       data.Result(),
		}); err != nil {
			return errors.Wrap(err, "decode block")
		}
		return nil
	case proto.ServerCodeLog:
		var data proto.Logs
		onResult := func(ctx context.Context, b proto.Block) error {
			ce := c.lg.Check(zap.DebugLevel, "Logs")
			if ce == nil && q.OnLogs == nil {
				return nil
			}
			logs := data.All()
			if ce != nil {
				ce.Write(zap.Any("logs", logs))
			}
			if f := q.OnLogs; f != nil {
				if err := f(ctx, logs); err != nil {
					return errors.Wrap(err, "logs")
				}
			}
			return nil
		}
		if err := c.decodeBlock(ctx, decodeOptions{
			Handler:      onResult,
			Compressible: p.Compressible(),
			Result:       data.Result(),
		}); err != nil {
			return errors.Wrap(err, "decode block")
		}
		return nil
	case proto.ServerCodePartUUIDs:
		var info proto.PartUUIDs
		if err := info.Decode(c.reader); err != nil {
			return errors.Wrap(err, "part uuids")
		}
		return nil
	case proto.ServerCodeReadTaskRequest:
		var req proto.ReadTaskRequest
		if err := req.Decode(c.reader); err != nil {
			return errors.Wrap(err, "read task request")
		}
		return errors.New("parallel replicas are not supported")
	default:
		return errors.Errorf("unexpected packet %q", p)
	}
}

// Do runs q against the server, blocking until the query completes,
// fails, or ctx is cancelled.
func (c *Client) Do(ctx context.Context, q Query) (err error) {
	if c.IsClosed() {
		return ErrClosed
	}
	if len(q.Parameters) > 0 && !proto.FeatureParameters.In(c.protocolVersion) {
		return errors.Errorf("query parameters are not supported in protocol version %d, upgrade server %q",
			c.protocolVersion, c.server,
		)
	}
	if q.QueryID == "" {
		q.QueryID = uuid.New().String()
	}
	{
		lg := c.lg
		defer func(v *zap.Logger) { c.lg = v }(lg)
		if q.Logger != nil {
			lg = q.Logger
		} else {
			lg = lg.With(zap.String("query_id", q.QueryID))
		}
		c.lg = lg
	}
	if c.otel {
		newCtx, span := c.tracer.Start(ctx, "Do",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemKey.String("clickhouse"),
				semconv.DBStatementKey.String(q.Body),
				semconv.DBUserKey.String(c.info.User),
				semconv.DBNameKey.String(c.info.Database),
				semconv.NetPeerIPKey.String(c.conn.RemoteAddr().String()),
				otelch.ProtocolVersion(c.protocolVersion),
				otelch.QuotaKey(q.QuotaKey),
				otelch.QueryID(q.QueryID),
			),
		)
		m := new(queryMetrics)
		ctx = context.WithValue(newCtx, ctxQueryKey{}, m)
		defer func() {
			span.SetAttributes(
				otelch.BlocksSent(m.BlocksSent),
				otelch.BlocksReceived(m.BlocksReceived),
				otelch.RowsReceived(m.RowsReceived),
				otelch.ColumnsReceived(m.ColumnsReceived),
				otelch.Rows(m.Rows),
				otelch.Bytes(m.Bytes),
			)
			if err != nil {
				span.RecordError(err)
				status := "Failed"
				var exc *Exception
				if errors.As(err, &exc) {
					status = exc.Name
					span.SetAttributes(
						otelch.ErrorCode(int(exc.Code)),
						otelch.ErrorName(exc.Name),
					)
				}
				span.SetStatus(codes.Error, status)
			} else {
				span.SetStatus(codes.Ok, "")
			}
			span.End()
		}()
	}

	g, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	var (
		gotException atomic.Bool
		colInfo      chan proto.ColInfoInput
	)
	if q.Result == nil && len(q.Input) > 0 {
		result := proto.ColInfoInput{}
		q.Result = &result
		colInfo = make(chan proto.ColInfoInput, 1)
		q.OnResult = func(ctx context.Context, block proto.Block) error {
			if ce := c.lg.Check(zap.DebugLevel, "Received column info"); ce != nil {
				info := make(map[string]proto.ColumnType, len(result))
				for _, v := range result {
					info[v.Name] = v.Type
				}
				ce.Write(zap.Any("columns", info))
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case colInfo <- result:
				return nil
			}
		}
	}

	g.Go(func() error {
		if err := c.sendQuery(ctx, q); err != nil {
			return errors.Wrap(err, "send query")
		}
		if err := c.flush(ctx); err != nil {
			return errors.Wrap(err, "flush")
		}
		var info proto.ColInfoInput
		if colInfo != nil {
			c.lg.Debug("Waiting for column info")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case v := <-colInfo:
				info = v
			}
		}
		if err := c.sendInput(ctx, info, q); err != nil {
			return errors.Wrap(err, "send input")
		}
		if err := c.flush(ctx); err != nil {
			return errors.Wrap(err, "flush")
		}
		return nil
	})
	g.Go(func() error {
		defer close(done)
		if colInfo != nil {
			defer close(colInfo)
		}
		onResult := c.resultHandler(q)
		for {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			code, err := c.packet(ctx)
			if err != nil {
				var opErr *net.OpError
				if errors.As(err, &opErr) && opErr.Timeout() {
					continue
				}
				return errors.Wrap(err, "packet")
			}
			switch code {
			case proto.ServerCodeData, proto.ServerCodeTotals, proto.ServerCodeExtremes:
				if err := c.decodeBlock(ctx, decodeOptions{
					Handler:      onResult,
					Result:       q.Result,
					Compressible: code.Compressible(),
				}); err != nil {
					return errors.Wrap(err, "decode block")
				}
			case proto.ServerCodeEndOfStream:
				return nil
			default:
				if err := c.handlePacket(ctx, code, q); err != nil {
					if IsException(err) {
						gotException.Store(true)
					}
					return errors.Wrap(err, "handle packet")
				}
			}
		}
	})
	g.Go(func() error {
		<-done
		if ctx.Err() != nil && !gotException.Load() {
			err := multierr.Append(ctx.Err(), c.cancelQuery())
			return errors.Wrap(err, "canceled")
		}
		return nil
	})
	return g.Wait()
}
