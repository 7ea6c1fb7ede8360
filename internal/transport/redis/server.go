package redis

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/cafebazaar/pav/pkg/pav"

	redisproto "github.com/secmask/go-redisproto"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/status"
)

type redisServer struct {
	listenPort int
	core       pav.Service
	wg         sync.WaitGroup
	listener   net.Listener
}

func New(core pav.Service, listenPort int) pav.Server {
	return &redisServer{
		core:       core,
		listenPort: listenPort,
	}
}

func (s *redisServer) Start() error {
	var err error

	s.listener, err = net.Listen("tcp", fmt.Sprintf(":%d", s.listenPort))
	if err != nil {
		return err
	}

	started := make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		close(started)

		for {
			conn, err := s.listener.Accept()
			if err != nil {
				return
			}

			go s.handleConnection(conn)
		}
	}()
	<-started

	return nil
}

func (s *redisServer) Close() error {
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

func (s *redisServer) handleConnection(conn net.Conn) {
	defer func() {
		if err := conn.Close(); err != nil {
			logrus.WithError(err).Info("unexpected error while closing connection")
		}
	}()

	parser := redisproto.NewParser(conn)
	writer := redisproto.NewWriter(bufio.NewWriter(conn))

	for {
		if err := s.connectionLoop(parser, writer); err != nil {
			logrus.WithError(err).Info("unexpected error while handling connection")
			return
		}
	}
}

func (s *redisServer) connectionLoop(parser *redisproto.Parser, writer *redisproto.Writer) error {
	command, err := parser.ReadCommand()
	if err != nil {
		_, ok := err.(*redisproto.ProtocolError)
		if ok {
			return writer.WriteError(err.Error())
		}

		return pav.ErrClosed
	}

	return s.dispatchCommand(command, writer)
}

func (s *redisServer) dispatchCommand(command *redisproto.Command, writer *redisproto.Writer) error {
	cmd := strings.ToUpper(string(command.Get(0)))
	var err error

	switch cmd {
	case "CAST":
		err = s.handleCastCommand(command, writer)

	case "REVOKE":
		err = s.handleRevokeCommand(command, writer)

	case "REVOKEBALLOT":
		err = s.handleRevokeBallotCommand(command, writer)

	case "RESULT":
		err = s.handleResultCommand(command, writer)

	case "BALLOTS":
		err = s.handleBallotsCommand(command, writer)

	case "FLUSHDB":
		err = s.handleFlushCommand(command, writer)

	case "PING":
		err = s.handlePingCommand(command, writer)

	case "ECHO":
		err = s.handleEchoCommand(command, writer)

	default:
		err = writer.WriteError(fmt.Sprintf("command not supported: %v", cmd))
	}

	if err != nil {
		return err
	}

	if command.IsLast() {
		return writer.Flush()
	}

	return nil
}

func (s *redisServer) handleCastCommand(command *redisproto.Command, writer *redisproto.Writer) error {
	candidates, err := s.candidates(command)
	if err != nil {
		return writer.WriteError(err.Error())
	}

	response, err := s.core.Cast(context.Background(), &pav.CastRequest{
		Candidates: candidates,
	})
	if err != nil {
		return writer.WriteError(s.errorMessage(err))
	}

	return writer.WriteInt(int64(response.ID))
}

func (s *redisServer) handleRevokeCommand(command *redisproto.Command, writer *redisproto.Writer) error {
	if command.ArgCount() != 2 {
		return writer.WriteError("expected 2 arguments for REVOKE command")
	}

	id, err := strconv.ParseInt(string(command.Get(1)), 10, 64)
	if err != nil {
		return writer.WriteError(err.Error())
	}

	err = s.core.Revoke(context.Background(), &pav.RevokeRequest{ID: pav.BallotID(id)})
	if err != nil {
		return writer.WriteError(s.errorMessage(err))
	}

	return writer.WriteSimpleString("OK")
}

func (s *redisServer) handleRevokeBallotCommand(command *redisproto.Command, writer *redisproto.Writer) error {
	candidates, err := s.candidates(command)
	if err != nil {
		return writer.WriteError(err.Error())
	}

	err = s.core.RevokeBallot(context.Background(), &pav.RevokeBallotRequest{
		Candidates: candidates,
	})
	if err != nil {
		return writer.WriteError(s.errorMessage(err))
	}

	return writer.WriteSimpleString("OK")
}

// handleResultCommand answers RESULT [LIMIT n] [SIZE k] [METHOD name] with a
// flat committee, score, committee, score, ... array.
func (s *redisServer) handleResultCommand(command *redisproto.Command, writer *redisproto.Writer) error {
	request := &pav.ResultRequest{}

	for i := 1; i < command.ArgCount(); i += 2 {
		if i+1 >= command.ArgCount() {
			return writer.WriteError("syntax error")
		}

		option := strings.ToUpper(string(command.Get(i)))
		value := string(command.Get(i + 1))

		switch option {
		case "LIMIT", "SIZE":
			n, err := strconv.Atoi(value)
			if err != nil {
				return writer.WriteError(err.Error())
			}

			if option == "LIMIT" {
				request.Limit = n
			} else {
				request.CommitteeSize = n
			}

		case "METHOD":
			request.Method = value

		default:
			return writer.WriteError(fmt.Sprintf("unsupported RESULT option: %v", option))
		}
	}

	response, err := s.core.Result(context.Background(), request)
	if err != nil {
		return writer.WriteError(s.errorMessage(err))
	}

	reply := make([]string, 0, 2*len(response.Committees))
	for _, row := range response.Committees {
		reply = append(reply, row.Committee.String(), strconv.FormatFloat(row.Score, 'g', -1, 64))
	}

	return writer.WriteBulkStrings(reply)
}

func (s *redisServer) handleBallotsCommand(command *redisproto.Command, writer *redisproto.Writer) error {
	response, err := s.core.Count(context.Background())
	if err != nil {
		return writer.WriteError(s.errorMessage(err))
	}

	return writer.WriteInt(int64(response.Count))
}

func (s *redisServer) handleFlushCommand(command *redisproto.Command, writer *redisproto.Writer) error {
	if err := s.core.Flush(context.Background()); err != nil {
		return writer.WriteError(s.errorMessage(err))
	}

	return writer.WriteSimpleString("OK")
}

func (s *redisServer) handlePingCommand(command *redisproto.Command, writer *redisproto.Writer) error {
	if command.ArgCount() > 2 {
		return writer.WriteError("expected 1-2 arguments for Ping command")
	}

	if command.ArgCount() == 1 {
		return writer.WriteSimpleString("PONG")
	}

	return writer.WriteBulk(command.Get(1))
}

func (s *redisServer) handleEchoCommand(command *redisproto.Command, writer *redisproto.Writer) error {
	if command.ArgCount() != 2 {
		return writer.WriteError("expected 2 arguments for Echo command")
	}

	return writer.WriteBulk(command.Get(1))
}

// candidates reads the command arguments as candidate names. Names may not
// contain the committee separator used in RESULT replies.
func (s *redisServer) candidates(command *redisproto.Command) ([]pav.Candidate, error) {
	result := make([]pav.Candidate, 0, command.ArgCount()-1)
	for i := 1; i < command.ArgCount(); i++ {
		candidate := string(command.Get(i))
		if strings.Contains(candidate, pav.CommitteeSeparator) {
			return nil, fmt.Errorf("candidate %q must not contain %q", candidate, pav.CommitteeSeparator)
		}

		result = append(result, candidate)
	}

	return result, nil
}

func (s *redisServer) errorMessage(err error) string {
	if st, ok := status.FromError(err); ok {
		return fmt.Sprintf("%v %v", strings.ToUpper(st.Code().String()), st.Message())
	}

	return err.Error()
}
