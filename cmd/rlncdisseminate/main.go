// Command rlncdisseminate is a loopback peer-to-peer dissemination demo: it
// replaces the teacher's in-process `chan Msg` gossip fan-out with real
// sockets, using gorilla/websocket to carry wire-format RLNC coded pieces
// between independent node processes running as goroutines on localhost.
// Like rlncbench, this is the out-of-scope CLI/example driver spec.md
// section 1 names as an external collaborator, not part of the library.
package main

import (
	crand "crypto/rand"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/perfogic/rlnc-sub000/rlnc"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// node is one peer in the dissemination mesh: it serves an incoming
// websocket endpoint for other nodes to push coded pieces to, and holds
// outbound client connections to the nodes it forwards to.
type node struct {
	id   int
	addr string

	mu      sync.Mutex
	clients []*websocket.Conn

	decMu sync.Mutex // serialises Decoder use across incoming connections
	dec   *rlnc.Decoder

	firstInnovAt time.Time
	started      time.Time
}

func newNode(id int, addr string, k, p, l int) (*node, error) {
	dec, err := rlnc.NewDecoder(k, p, l)
	if err != nil {
		return nil, err
	}
	return &node{id: id, addr: addr, dec: dec, started: time.Now()}, nil
}

func (n *node) serve() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", n.handleIncoming)
	return http.ListenAndServe(n.addr, mux)
}

func (n *node) handleIncoming(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		mt, payload, err := conn.ReadMessage()
		if err != nil || mt != websocket.BinaryMessage {
			return
		}
		n.ingest(payload)
	}
}

// ingest feeds a received coded piece into this node's Decoder and, if it
// was innovative, forwards it on to every node this one fans out to.
func (n *node) ingest(piece []byte) {
	n.decMu.Lock()
	wasEmpty := n.dec.UsefulPieceCount() == 0
	err := n.dec.Decode(piece)
	if err == nil && wasEmpty {
		n.firstInnovAt = time.Now()
	}
	n.decMu.Unlock()
	if err != nil {
		return // duplicate / linearly dependent / already full rank
	}
	n.broadcast(piece)
}

func (n *node) connectTo(addr string) error {
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	if err != nil {
		return err
	}
	n.mu.Lock()
	n.clients = append(n.clients, conn)
	n.mu.Unlock()
	return nil
}

func (n *node) broadcast(piece []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, c := range n.clients {
		_ = c.WriteMessage(websocket.BinaryMessage, piece)
	}
}

func (n *node) send(piece []byte) {
	n.broadcast(piece)
}

func main() {
	numNodes := flag.Int("nodes", 4, "Number of peer nodes")
	fanout := flag.Int("fanout", 2, "Number of peers each node forwards to")
	fileSize := flag.Int("filesize", 64*1024, "Payload size in bytes")
	chunkSize := flag.Int("chunksize", 1024, "Bytes per original piece")
	basePort := flag.Int("baseport", 18080, "First TCP port; nodes bind basePort..basePort+nodes-1")
	flag.Parse()

	k := *fileSize / *chunkSize
	if k < 2 {
		fmt.Println("filesize/chunksize must yield at least 2 pieces")
		return
	}

	data := make([]byte, *fileSize)
	if _, err := crand.Read(data); err != nil {
		log.Fatal(err)
	}
	enc, err := rlnc.NewEncoder(data, k)
	if err != nil {
		log.Fatal(err)
	}

	nodes := make([]*node, *numNodes)
	for i := range nodes {
		addr := fmt.Sprintf("127.0.0.1:%d", *basePort+i)
		n, err := newNode(i, addr, k, enc.PieceByteLen(), len(data))
		if err != nil {
			log.Fatal(err)
		}
		nodes[i] = n
		go func(n *node) {
			if err := n.serve(); err != nil {
				log.Printf("node %d stopped serving: %v", n.id, err)
			}
		}(n)
	}
	time.Sleep(200 * time.Millisecond) // let listeners come up

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, n := range nodes {
		for len(n.clients) < *fanout {
			target := nodes[rng.Intn(len(nodes))]
			if target == n {
				continue
			}
			if err := n.connectTo(target.addr); err != nil {
				log.Printf("node %d failed to connect to %s: %v", n.id, target.addr, err)
				break
			}
		}
	}

	source := nodes[0]
	codedRng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < k*3; i++ {
		piece, err := enc.Code(codedRng)
		if err != nil {
			log.Fatal(err)
		}
		source.send(piece)
	}

	time.Sleep(2 * time.Second)

	for _, n := range nodes {
		status := "incomplete"
		if n.dec.IsAlreadyDecoded() {
			status = "decoded"
		}
		latency := time.Duration(0)
		if !n.firstInnovAt.IsZero() {
			latency = n.firstInnovAt.Sub(n.started)
		}
		fmt.Printf("node %d: rank %d/%d (%s), first innovative piece after %v\n",
			n.id, n.dec.UsefulPieceCount(), k, status, latency)
	}
}
