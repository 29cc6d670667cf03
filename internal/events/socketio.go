package events

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/vesselbatch/internal/ctxlog"
	"github.com/vk/vesselbatch/internal/session"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Socket.IO event names emitted by SocketIO.
const (
	EventLock      = "batch:lock"
	EventSelect    = "batch:select"
	EventStatus    = "batch:status"
	EventDiskSpace = "batch:disk_space"
	EventState     = "batch:state"
)

const connectTimeout = 15 * time.Second

// SocketIOOptions configures the dashboard connection.
type SocketIOOptions struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// StatusPayload is the body of EventStatus.
type StatusPayload struct {
	Session   string  `json:"session"`
	Row       int     `json:"row"`
	Status    string  `json:"status"`
	Regions   string  `json:"regions,omitempty"`
	Final     bool    `json:"final"`
	Outcome   string  `json:"outcome,omitempty"`
	ElapsedMS float64 `json:"elapsed_ms,omitempty"`
}

// SocketIO publishes session events to a Socket.IO server.
type SocketIO struct {
	emit  func(event string, payload any)
	close func()
}

// DialSocketIO connects to the server and waits for the handshake.
func DialSocketIO(ctx context.Context, o SocketIOOptions) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", o.URL)
	logger.Info("Connecting to progress dashboard...")

	parsedURL, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(o.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to progress dashboard.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}

	return &SocketIO{
		emit: func(event string, payload any) {
			io.Emit(event, payload)
		},
		close: func() {
			logger.Info("Disconnecting from progress dashboard.", "sid", io.Id())
			io.Disconnect()
		},
	}, nil
}

// Close disconnects from the server.
func (s *SocketIO) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

func (s *SocketIO) Lock(locked bool) {
	s.emit(EventLock, map[string]bool{"locked": locked})
}

func (s *SocketIO) Select(row int) {
	s.emit(EventSelect, map[string]int{"row": row})
}

func (s *SocketIO) Status(ev session.StatusEvent) {
	s.emit(EventStatus, StatusPayload{
		Session:   ev.Session,
		Row:       ev.Row,
		Status:    ev.Text,
		Regions:   ev.Extra,
		Final:     ev.Final,
		Outcome:   string(ev.Outcome),
		ElapsedMS: float64(ev.Elapsed) / float64(time.Millisecond),
	})
}

func (s *SocketIO) DiskSpace(requiredGB float64) {
	s.emit(EventDiskSpace, map[string]float64{"required_gb": requiredGB})
}

func (s *SocketIO) State(id string, st session.State) {
	s.emit(EventState, map[string]string{"session": id, "state": st.String()})
}
