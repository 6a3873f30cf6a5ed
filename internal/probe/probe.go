// Package probe answers host reachability for the scan engine. It
// sends one ICMP echo and, when raw sockets are unavailable or the
// echo goes unanswered, falls back to a TCP dial against the RPC
// endpoint mapper port that every manageable Windows host listens on.
package probe

import (
	"math/rand"
	"net"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/brittonthompson/serviceaccounts/internal/scan"
)

// rpcEndpointMapperPort is open on any Windows host that accepts
// remote management calls.
const rpcEndpointMapperPort = 135

var pingSequence uint32

// Pinger probes host reachability. It implements scan.Prober.
type Pinger struct {
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Pinger with the given per-probe timeout.
func New(timeout time.Duration, logger *zap.Logger) *Pinger {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Pinger{timeout: timeout, logger: logger}
}

// Reachable reports whether the host answers an ICMP echo or accepts
// a TCP connection on the RPC endpoint mapper port. The local host is
// always reachable.
func (p *Pinger) Reachable(host scan.HostTarget) bool {
	if host.IsLocal {
		return true
	}

	ips, err := net.LookupIP(host.Name)
	if err != nil || len(ips) == 0 {
		p.logger.Debug("host name did not resolve", zap.String("host", host.Name), zap.Error(err))
		return false
	}

	for _, ip := range ips {
		if p.pingOnce(ip) {
			return true
		}
	}
	return p.dialRPC(host.Name)
}

func (p *Pinger) pingOnce(ip net.IP) bool {
	ip = ip.To4()
	if ip == nil {
		return false
	}

	conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		p.logger.Debug("ICMP listen failed", zap.Error(err))
		return false
	}
	defer conn.Close()

	seq := int(atomic.AddUint32(&pingSequence, 1))
	id := os.Getpid() & 0xffff
	message := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   id,
			Seq:  seq,
			Data: []byte{0x53, 0x41, 0x43, byte(rand.Intn(255))},
		},
	}
	payload, err := message.Marshal(nil)
	if err != nil {
		return false
	}

	if err := conn.SetDeadline(time.Now().Add(p.timeout)); err != nil {
		return false
	}
	if _, err := conn.WriteTo(payload, &net.IPAddr{IP: ip}); err != nil {
		return false
	}

	buffer := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(buffer)
		if err != nil {
			return false
		}
		if peer == nil {
			continue
		}
		parsed, err := icmp.ParseMessage(1, buffer[:n])
		if err != nil {
			return false
		}
		if parsed.Type == ipv4.ICMPTypeEchoReply {
			return true
		}
	}
}

func (p *Pinger) dialRPC(host string) bool {
	address := net.JoinHostPort(host, strconv.Itoa(rpcEndpointMapperPort))
	conn, err := net.DialTimeout("tcp", address, p.timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
