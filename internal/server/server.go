// Package server hosts the demo TCP listener that fronts the matching
// engine, sharding one engine instance per (market, outcome) pair.
// engine.Book deliberately has no internal locking — it's single-writer
// by design — so each shard here is paired with its own mutex.
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/tomb.v2"

	"outcomebook/internal/common"
	"outcomebook/internal/engine"
	"outcomebook/internal/metrics"
	"outcomebook/internal/wire"
)

const (
	maxRecvSize     = 4 * 1024
	defaultWorkers  = 10
	connReadTimeout = 5 * time.Second
)

// bookKey identifies one matching engine shard.
type bookKey struct {
	marketID  string
	outcomeID string
}

// shard pairs a book with the mutex that serializes access to it.
type shard struct {
	mu   sync.Mutex
	book *engine.Book
}

// clientSession tracks one connected TCP client so responses for a
// given request can be written back to the right socket.
type clientSession struct {
	conn net.Conn
}

type clientMessage struct {
	clientAddress string
	msg           any
}

// Server is the demo TCP host. It owns no matching logic of its own: it
// only parses wire frames, dispatches them to the right book shard, and
// writes the resulting reports back.
type Server struct {
	address string

	shardsMu sync.Mutex
	shards   map[bookKey]*shard

	pool               WorkerPool
	cancel             context.CancelFunc
	clientSessions     map[string]clientSession
	clientSessionsLock sync.Mutex
	clientMessages     chan clientMessage

	metrics *metrics.Collector
}

// New builds a Server listening at address (host:port form). metrics
// may be nil to disable instrumentation.
func New(address string, m *metrics.Collector) *Server {
	return &Server{
		address:        address,
		shards:         make(map[bookKey]*shard),
		pool:           NewWorkerPool(defaultWorkers),
		clientSessions: make(map[string]clientSession),
		clientMessages: make(chan clientMessage, 16),
		metrics:        m,
	}
}

// bookFor returns the shard for (marketID, outcomeID), creating it on
// first use.
func (s *Server) bookFor(marketID, outcomeID string) *shard {
	s.shardsMu.Lock()
	defer s.shardsMu.Unlock()

	key := bookKey{marketID, outcomeID}
	sh, ok := s.shards[key]
	if !ok {
		sh = &shard{book: engine.NewBook(marketID, outcomeID)}
		s.shards[key] = sh
	}
	return sh
}

func (s *Server) Shutdown() {
	log.Info().Msg("server shutting down")
	if s.cancel != nil {
		s.cancel()
	}
}

// Run blocks accepting connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	defer s.cancel()

	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.address, err)
	}
	// Closing the listener once ctx is done is what unblocks a pending
	// Accept below; the deferred s.cancel covers every other exit path.
	go func() {
		<-ctx.Done()
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("closing listener")
		}
	}()

	t.Go(func() error {
		s.pool.Setup(t, s.handleConnection)
		return nil
	})
	t.Go(func() error {
		return s.sessionHandler(t)
	})

	log.Info().Str("address", s.address).Msg("listening for connections")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				log.Error().Err(err).Msg("error accepting client")
				continue
			}
			log.Info().Str("remote", conn.RemoteAddr().String()).Msg("client connected")
			s.addClientSession(conn)
			s.pool.AddTask(conn)
		}
	}
}

// sessionHandler drains parsed client messages and dispatches them
// against the right book shard, one at a time, outside the read loop.
func (s *Server) sessionHandler(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case cm := <-s.clientMessages:
			s.dispatch(cm)
		}
	}
}

func (s *Server) dispatch(cm clientMessage) {
	sess, ok := s.lookupClientSession(cm.clientAddress)
	if !ok {
		return
	}

	switch m := cm.msg.(type) {
	case wire.NewOrderMessage:
		s.handleNewOrder(sess, m)
	case wire.CancelOrderMessage:
		s.handleCancelOrder(sess, m)
	case wire.DepthRequestMessage:
		s.handleDepthRequest(sess, m)
	default:
		log.Error().Str("address", cm.clientAddress).Msg("unhandled message type")
	}
}

func (s *Server) handleNewOrder(sess clientSession, m wire.NewOrderMessage) {
	sh := s.bookFor(m.MarketID, m.OutcomeID)
	sh.mu.Lock()
	result, err := sh.book.ProcessLimitOrder(m.Order())
	active := sh.book.ActiveOrders()
	sh.mu.Unlock()

	if s.metrics != nil {
		if err != nil {
			s.metrics.RecordRejected(m.MarketID, m.OutcomeID, errorKind(err))
		} else {
			s.metrics.RecordAccepted(m.MarketID, m.OutcomeID, m.Side.String())
			s.metrics.SetActiveOrders(m.MarketID, m.OutcomeID, active)
			s.recordTrades(m.MarketID, m.OutcomeID, result.Trades)
		}
	}

	if err != nil {
		log.Error().Err(err).Uint64("order_id", uint64(m.OrderID)).Msg("rejected order")
		writeReport(sess.conn, wire.ErrorReport(m.RequestID, err))
		return
	}

	for _, trade := range result.Trades {
		writeReport(sess.conn, wire.ExecutionReport(m.RequestID, trade))
	}
	writeReport(sess.conn, wire.AckReport(m.RequestID))
}

func (s *Server) recordTrades(marketID, outcomeID string, trades []common.Trade) {
	if len(trades) == 0 {
		return
	}
	var volume uint64
	for _, tr := range trades {
		volume += uint64(tr.Quantity)
	}
	s.metrics.RecordTrades(marketID, outcomeID, len(trades), volume)
}

func (s *Server) handleCancelOrder(sess clientSession, m wire.CancelOrderMessage) {
	sh := s.bookFor(m.MarketID, m.OutcomeID)
	sh.mu.Lock()
	err := sh.book.CancelOrder(m.OrderID)
	sh.mu.Unlock()

	if err != nil {
		writeReport(sess.conn, wire.ErrorReport(m.RequestID, err))
		return
	}
	writeReport(sess.conn, wire.AckReport(m.RequestID))
}

func (s *Server) handleDepthRequest(sess clientSession, m wire.DepthRequestMessage) {
	sh := s.bookFor(m.MarketID, m.OutcomeID)
	sh.mu.Lock()
	snap := sh.book.GetDepth(int(m.Depth))
	sh.mu.Unlock()

	report := wire.DepthReportFrom(m.RequestID, snap)
	if _, err := sess.conn.Write(report.Serialize()); err != nil {
		log.Error().Err(err).Msg("writing depth report")
	}
}

func writeReport(conn net.Conn, r wire.Report) {
	if _, err := conn.Write(r.Serialize()); err != nil {
		log.Error().Err(err).Msg("writing report")
	}
}

func errorKind(err error) string {
	if oe, ok := err.(*common.OrderError); ok {
		return oe.Kind.String()
	}
	return "unknown"
}

// handleConnection is a short-lived worker task: it reads exactly one
// frame off conn, forwards it to the session handler, and re-queues the
// connection so the next frame is served by a (possibly different)
// worker. A read or parse failure drops the session.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return fmt.Errorf("unexpected task type %T", task)
	}

	select {
	case <-t.Dying():
		return nil
	default:
	}

	if err := conn.SetReadDeadline(time.Now().Add(connReadTimeout)); err != nil {
		log.Error().Err(err).Msg("setting read deadline")
	}

	buf := make([]byte, maxRecvSize)
	n, err := conn.Read(buf)
	if err != nil {
		s.closeClientSession(conn)
		return nil
	}

	msg, err := wire.ParseMessage(buf[:n])
	if err != nil {
		log.Error().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("parse error")
		s.closeClientSession(conn)
		return nil
	}

	s.clientMessages <- clientMessage{clientAddress: conn.RemoteAddr().String(), msg: msg}
	s.pool.AddTask(conn)
	return nil
}

func (s *Server) addClientSession(conn net.Conn) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	s.clientSessions[conn.RemoteAddr().String()] = clientSession{conn: conn}
}

func (s *Server) lookupClientSession(address string) (clientSession, bool) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	sess, ok := s.clientSessions[address]
	return sess, ok
}

func (s *Server) closeClientSession(conn net.Conn) {
	address := conn.RemoteAddr().String()
	s.clientSessionsLock.Lock()
	delete(s.clientSessions, address)
	s.clientSessionsLock.Unlock()

	if err := conn.Close(); err != nil {
		log.Error().Err(err).Str("remote", address).Msg("closing connection")
	}
}
