package verifier

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// mapResolver answers MX lookups from a fixed table.
type mapResolver struct {
	records map[string][]*net.MX
	errs    map[string]error
}

func (r mapResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := r.errs[domain]; ok {
		return nil, err
	}
	records, ok := r.records[domain]
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: domain, IsNotFound: true}
	}
	out := make([]*net.MX, len(records))
	for i, mx := range records {
		cp := *mx
		out[i] = &cp
	}
	return out, nil
}

func localMX(domains ...string) mapResolver {
	r := mapResolver{records: map[string][]*net.MX{}}
	for _, d := range domains {
		r.records[d] = []*net.MX{{Host: "127.0.0.1.", Pref: 10}}
	}
	return r
}

// rcptHandler returns the reply line for RCPT TO. It may block.
type rcptHandler func(rcpt string) string

// smtpServer is a minimal SMTP responder on 127.0.0.1 that never accepts DATA.
type smtpServer struct {
	ln      net.Listener
	rcpt    rcptHandler
	greet   bool
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	rcptLog []string
}

func startSMTPServer(t *testing.T, rcpt rcptHandler) *smtpServer {
	return startServer(t, rcpt, true)
}

// startSilentServer accepts connections but never sends a greeting.
func startSilentServer(t *testing.T) *smtpServer {
	return startServer(t, nil, false)
}

// startSilentServerOn552Port listens on the first free port in 55200-55299,
// so the port number itself contains "552".
func startSilentServerOn552Port(t *testing.T) *smtpServer {
	t.Helper()
	for port := 55200; port < 55300; port++ {
		ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err == nil {
			return serveOn(t, ln, nil, false)
		}
	}
	t.Skip("no free port in 55200-55299")
	return nil
}

func startServer(t *testing.T, rcpt rcptHandler, greet bool) *smtpServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return serveOn(t, ln, rcpt, greet)
}

func serveOn(t *testing.T, ln net.Listener, rcpt rcptHandler, greet bool) *smtpServer {
	t.Helper()

	s := &smtpServer{ln: ln, rcpt: rcpt, greet: greet, done: make(chan struct{})}
	s.wg.Add(1)
	go s.serve()

	t.Cleanup(func() {
		close(s.done)
		_ = ln.Close()
		s.wg.Wait()
	})
	return s
}

func (s *smtpServer) Port() string {
	_, port, _ := net.SplitHostPort(s.ln.Addr().String())
	return port
}

func (s *smtpServer) Recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.rcptLog...)
}

func (s *smtpServer) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

func (s *smtpServer) handle(conn net.Conn) {
	defer conn.Close()
	go func() {
		<-s.done
		_ = conn.Close()
	}()

	if !s.greet {
		<-s.done
		return
	}

	w := bufio.NewWriter(conn)
	reply := func(line string) bool {
		if _, err := w.WriteString(line + "\r\n"); err != nil {
			return false
		}
		return w.Flush() == nil
	}

	if !reply("220 mx.test ESMTP ready") {
		return
	}
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		verb := strings.ToUpper(line)

		var ok bool
		switch {
		case strings.HasPrefix(verb, "EHLO"), strings.HasPrefix(verb, "HELO"):
			if strings.TrimSpace(line[4:]) == "" {
				ok = reply("501 5.5.4 Syntax: EHLO hostname")
			} else {
				ok = reply("250 mx.test")
			}
		case strings.HasPrefix(verb, "MAIL FROM:<>"):
			ok = reply("501 5.1.7 Bad sender address syntax")
		case strings.HasPrefix(verb, "MAIL FROM:"):
			ok = reply("250 2.1.0 OK")
		case strings.HasPrefix(verb, "RCPT TO:"):
			addr := strings.Trim(line[len("RCPT TO:"):], "<> ")
			s.mu.Lock()
			s.rcptLog = append(s.rcptLog, addr)
			s.mu.Unlock()
			ok = reply(s.rcpt(addr))
		case strings.HasPrefix(verb, "RSET"), strings.HasPrefix(verb, "NOOP"):
			ok = reply("250 OK")
		case strings.HasPrefix(verb, "QUIT"):
			reply("221 2.0.0 Bye")
			return
		default:
			ok = reply("502 5.5.2 Command not implemented")
		}
		if !ok {
			return
		}
	}
}

func acceptAll(string) string { return "250 2.1.5 OK" }

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
