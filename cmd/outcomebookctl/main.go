// Command outcomebookctl is a demo CLI client for outcomebookd. It
// speaks the same ad hoc binary protocol the host exposes under
// internal/wire and exists only to exercise it end to end; nothing
// about internal/engine depends on it.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"outcomebook/internal/common"
	"outcomebook/internal/wire"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "address of the outcomebookd host")
	action := flag.String("action", "place", "action to perform: place, cancel, depth")
	owner := flag.String("owner", "", "submitting user ID (random UUID if omitted)")
	market := flag.String("market", "election-2028", "market ID")
	outcomeID := flag.String("outcome", "YES", "outcome ID")
	sideStr := flag.String("side", "buy", "order side: buy or sell")
	price := flag.Uint64("price", 50, "limit price, in basis points")
	qtyStr := flag.String("qty", "10", "quantity, or a comma-separated list to place several orders")
	orderID := flag.Uint64("order-id", 0, "order ID to act on (place generates one if zero)")
	depth := flag.Uint("depth", 5, "number of price levels to request for 'depth'")

	flag.Parse()

	if *owner == "" {
		*owner = uuid.New().String()
	}

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("dial %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("connected to %s as %s\n", *serverAddr, *owner)

	side := common.Buy
	if strings.EqualFold(*sideStr, "sell") {
		side = common.Sell
	}

	switch strings.ToLower(*action) {
	case "place":
		quantities := parseQuantities(*qtyStr)
		id := *orderID
		for _, qty := range quantities {
			if id == 0 {
				id = uint64(time.Now().UnixNano())
			}
			reqID := uuid.New()
			msg := wire.NewOrderMessage{
				RequestID: reqID,
				OrderID:   common.OrderID(id),
				Side:      side,
				Price:     common.Price(*price),
				Quantity:  common.Quantity(qty),
				Timestamp: uint64(time.Now().UnixMicro()),
				MarketID:  *market,
				OutcomeID: *outcomeID,
				UserID:    *owner,
			}
			raw, err := msg.Serialize()
			if err != nil {
				log.Fatalf("encode order: %v", err)
			}
			if _, err := conn.Write(raw); err != nil {
				log.Fatalf("send order: %v", err)
			}
			fmt.Printf("-> placed order %d: %s %d @ %d\n", id, *sideStr, qty, *price)
			readReports(conn, reqID)
			id++
		}

	case "cancel":
		if *orderID == 0 {
			log.Fatal("-order-id is required for cancel")
		}
		reqID := uuid.New()
		msg := wire.CancelOrderMessage{
			RequestID: reqID,
			OrderID:   common.OrderID(*orderID),
			MarketID:  *market,
			OutcomeID: *outcomeID,
		}
		raw, err := msg.Serialize()
		if err != nil {
			log.Fatalf("encode cancel: %v", err)
		}
		if _, err := conn.Write(raw); err != nil {
			log.Fatalf("send cancel: %v", err)
		}
		fmt.Printf("-> cancel requested for order %d\n", *orderID)
		readReports(conn, reqID)

	case "depth":
		reqID := uuid.New()
		msg := wire.DepthRequestMessage{
			RequestID: reqID,
			Depth:     uint16(*depth),
			MarketID:  *market,
			OutcomeID: *outcomeID,
		}
		raw, err := msg.Serialize()
		if err != nil {
			log.Fatalf("encode depth request: %v", err)
		}
		if _, err := conn.Write(raw); err != nil {
			log.Fatalf("send depth request: %v", err)
		}
		printDepth(conn)

	default:
		log.Fatalf("unknown action %q", *action)
	}
}

func parseQuantities(input string) []uint64 {
	var out []uint64
	for _, p := range strings.Split(input, ",") {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			log.Printf("skipping invalid quantity %q: %v", p, err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// reportFixedLen mirrors wire.Report's fixed-width prefix: the
// variable-length error message is appended after it.
const reportFixedLen = 16 + 1 + 8 + 8 + 8 + 8 + 8 + 1 + 8 + 2

// readReports reads frames for reqID until an ack or error closes the
// request, printing each execution as it arrives.
func readReports(conn net.Conn, reqID uuid.UUID) {
	for {
		head := make([]byte, reportFixedLen)
		if _, err := io.ReadFull(conn, head); err != nil {
			if err != io.EOF {
				log.Printf("connection lost: %v", err)
			}
			return
		}
		errLen := int(binary.BigEndian.Uint16(head[66:68]))
		frame := head
		if errLen > 0 {
			tail := make([]byte, errLen)
			if _, err := io.ReadFull(conn, tail); err != nil {
				log.Printf("reading report body: %v", err)
				return
			}
			frame = append(frame, tail...)
		}

		report, err := wire.ParseReport(frame)
		if err != nil {
			log.Printf("parsing report: %v", err)
			return
		}
		if report.RequestID != reqID {
			continue
		}

		switch report.Type {
		case wire.ReportExecution:
			fmt.Printf("   [trade %d] %s %d @ %d (taker %d, maker %d)\n",
				report.TradeID, report.TakerSide, report.Quantity, report.Price,
				report.TakerOrderID, report.MakerOrderID)
		case wire.ReportError:
			fmt.Printf("   [rejected] %s\n", report.ErrMessage)
			return
		case wire.ReportAck:
			fmt.Println("   [ack]")
			return
		}
	}
}

func printDepth(conn net.Conn) {
	buf := make([]byte, 4*1024)
	n, err := conn.Read(buf)
	if err != nil {
		log.Printf("reading depth report: %v", err)
		return
	}
	snap, err := wire.ParseDepthReport(buf[:n])
	if err != nil {
		log.Printf("parsing depth report: %v", err)
		return
	}
	fmt.Println("bids:")
	for _, lvl := range snap.Bids {
		fmt.Printf("   %d @ %d\n", lvl.Quantity, lvl.Price)
	}
	fmt.Println("asks:")
	for _, lvl := range snap.Asks {
		fmt.Printf("   %d @ %d\n", lvl.Quantity, lvl.Price)
	}
	os.Exit(0)
}
