package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/kiryu-dev/battleship/pkg/utils"
	"github.com/pkg/errors"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	key := flag.String("key", os.Getenv("CLIENT_KEY"), "client key, a new one is generated when empty")
	flag.Parse()
	if *key == "" {
		*key = uuid.NewString()
	}
	fmt.Println("Ключ игрока: " + *key)
	host := *addr
	scanner := bufio.NewScanner(os.Stdin)
	for {
		master, err := play(host, *key, scanner)
		if err != nil {
			log.Fatal(err)
		}
		if master == "" {
			return
		}
		host = switchHost(host, master)
		fmt.Println("Переподключение к " + host)
	}
}

// play returns the master server name when the server asks to reconnect.
func play(host, key string, scanner *bufio.Scanner) (string, error) {
	u := url.URL{Scheme: "ws", Host: host, Path: "/game"}
	header := http.Header{}
	header.Set(domain.ClientKeyHeader, key)
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		return "", errors.WithMessage(err, "dial")
	}
	defer func() {
		_ = conn.Close()
	}()
	return newClient(conn, scanner).handleActions()
}

// switchHost keeps the port of the current address.
func switchHost(current, master string) string {
	if _, _, err := net.SplitHostPort(master); err == nil {
		return master
	}
	_, port, err := net.SplitHostPort(current)
	if err != nil {
		return master
	}
	return net.JoinHostPort(master, port)
}

type client struct {
	conn    *websocket.Conn
	scanner *bufio.Scanner
	player  domain.BoardView
	enemy   domain.BoardView
}

func newClient(conn *websocket.Conn, scanner *bufio.Scanner) *client {
	return &client{
		conn:    conn,
		scanner: scanner,
	}
}

func (c *client) handleActions() (string, error) {
	for {
		msg := new(domain.Message)
		if err := c.conn.ReadJSON(msg); err != nil {
			return "", errors.WithMessage(err, "read json msg")
		}
		switch msg.Type {
		case domain.StartGame:
			if err := c.handleStartGameAction(msg); err != nil {
				return "", errors.WithMessage(err, "handle start game action")
			}
		case domain.RequestShot:
			if err := c.handleRequestShotAction(); err != nil {
				return "", errors.WithMessage(err, "handle request shot action")
			}
		case domain.ShotResult:
			if err := c.handleShotResultAction(msg); err != nil {
				return "", errors.WithMessage(err, "handle shot result action")
			}
		case domain.PlacementRejected, domain.ShotRejected:
			v, err := utils.UnmarshalJson[domain.RejectedPayload](msg.Payload)
			if err != nil {
				return "", errors.WithMessage(err, "unmarshal json to 'RejectedPayload' type")
			}
			fmt.Println("Отклонено: " + v.Reason)
		case domain.GameOver:
			v, err := utils.UnmarshalJson[domain.GameOverPayload](msg.Payload)
			if err != nil {
				return "", errors.WithMessage(err, "unmarshal json to 'GameOverPayload' type")
			}
			fmt.Println(v.GameResult)
			return "", nil
		case domain.SwitchServer:
			v, err := utils.UnmarshalJson[domain.SwitchServerPayload](msg.Payload)
			if err != nil {
				return "", errors.WithMessage(err, "unmarshal json to 'SwitchServerPayload' type")
			}
			return v.MasterServer, nil
		}
	}
}

func (c *client) handleStartGameAction(msg *domain.Message) error {
	v, err := utils.UnmarshalJson[domain.StartGamePayload](msg.Payload)
	if err != nil {
		return errors.WithMessage(err, "unmarshal json to 'StartGamePayload' type")
	}
	c.player, c.enemy = v.Player, v.Enemy
	c.printBoards()
	if len(v.Fleet) == 0 {
		return nil
	}
	ships, err := c.readFleet(v.Fleet)
	if err != nil {
		return errors.WithMessage(err, "read fleet")
	}
	err = c.conn.WriteJSON(domain.Message{
		Type:    domain.PlaceFleet,
		Payload: domain.PlaceFleetPayload{Ships: ships},
	})
	if err != nil {
		return errors.WithMessage(err, "write json msg")
	}
	return nil
}

// readFleet returns nil when the player picks random placement.
func (c *client) readFleet(lengths []int) ([]domain.Ship, error) {
	fmt.Printf("Осталось расставить: %v. Расставить случайно? (y/n): ", lengths)
	answer, err := c.readLine()
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(answer, "n") {
		return nil, nil
	}
	ships := make([]domain.Ship, 0, len(lengths))
	for _, length := range lengths {
		for {
			fmt.Printf("Корабль длины %d (x y h|v): ", length)
			ship, err := c.readShip(length)
			if err == nil {
				ships = append(ships, ship)
				break
			}
			if errors.Is(err, errInputClosed) {
				return nil, err
			}
		}
	}
	return ships, nil
}

func (c *client) readShip(length int) (domain.Ship, error) {
	line, err := c.readLine()
	if err != nil {
		return domain.Ship{}, err
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return domain.Ship{}, errors.New("want x, y and direction")
	}
	start, err := parseCoordinate(fields[0], fields[1])
	if err != nil {
		return domain.Ship{}, err
	}
	direction := domain.Horizontal
	if fields[2] == "v" {
		direction = domain.Vertical
	}
	return domain.NewShip("", start, direction, length), nil
}

func (c *client) handleRequestShotAction() error {
	var (
		target domain.Coordinate
		err    error
	)
	for {
		fmt.Printf("Твой выстрел (x y): ")
		target, err = c.selectCell()
		if err == nil {
			break
		}
		if errors.Is(err, errInputClosed) {
			return err
		}
		fmt.Print("\033[F\033[K")
	}
	err = c.conn.WriteJSON(domain.Message{
		Type:    domain.Shot,
		Payload: domain.ShotPayload{Target: target},
	})
	if err != nil {
		return errors.WithMessage(err, "write json msg")
	}
	return nil
}

func (c *client) handleShotResultAction(msg *domain.Message) error {
	v, err := utils.UnmarshalJson[domain.ShotResultPayload](msg.Payload)
	if err != nil {
		return errors.WithMessage(err, "unmarshal json to 'ShotResultPayload' type")
	}
	if v.Player.Size > 0 {
		c.player, c.enemy = v.Player, v.Enemy
		c.printBoards()
	}
	who := "Ты"
	if v.Attacker == domain.EnemySide {
		who = "Противник"
	}
	fmt.Printf("%s: %s -> %s\n", who, v.Target, v.Result)
	return nil
}

var errInputClosed = errors.New("input closed")

func (c *client) readLine() (string, error) {
	if ok := c.scanner.Scan(); !ok {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(c.scanner.Text()), nil
}

func (c *client) selectCell() (domain.Coordinate, error) {
	line, err := c.readLine()
	if err != nil {
		return domain.Coordinate{}, err
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return domain.Coordinate{}, errors.New("want x and y")
	}
	return parseCoordinate(fields[0], fields[1])
}

func parseCoordinate(xs, ys string) (domain.Coordinate, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return domain.Coordinate{}, err
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return domain.Coordinate{}, err
	}
	return domain.NewCoordinate(x, y), nil
}

func (c *client) printBoards() {
	fmt.Printf("\033[H\033[J")
	fmt.Println("Твоё поле:")
	fmt.Print(c.player.Render())
	fmt.Println("Поле противника:")
	fmt.Print(c.enemy.Render())
}
