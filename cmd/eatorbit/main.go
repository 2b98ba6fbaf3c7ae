package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"eatorbit-client/internal/api"
	"eatorbit-client/internal/cart"
	"eatorbit-client/internal/config"
	"eatorbit-client/internal/domain"
	"eatorbit-client/internal/env"
	"eatorbit-client/internal/order"
	"eatorbit-client/internal/session"
)

const usage = `usage: eatorbit [flags] <command> [args]

commands:
  login -email E -password P      sign in and persist the credential
  register -name N -email E -password P [-owner]
  logout                          drop the persisted credential
  whoami                          show the signed-in identity
  outlets                         list approved outlets
  menu <outletId>                 list an outlet's menu
  cart show                      show the synchronized cart
  cart add <foodId> <qty>        add an item
  cart inc <cartItemId>          bump a line's quantity by one
  cart dec <cartItemId>          drop a line's quantity by one
  cart rm <cartItemId>           remove a line
  checkout -method UPI|CASH -paid place the order (requires -paid for UPI)
  track <token>                   look up an order by token
  orders                          list my orders

owner commands (sign in as an outlet owner):
  owner outlets | create-outlet | update-outlet <id>
  owner foods -outlet ID | add-food | update-food <id> | rm-food <id>
  owner orders -outlet ID | status <orderId> <STATUS>
  owner upi-qr -outlet ID | set-upi-qr

admin commands (sign in as an administrator):
  admin users | pending-vendors | approve <id> | reject <id>
  admin outlets | orders | rm-user <id>
`

type app struct {
	cfg  config.Config
	log  *slog.Logger
	sess *session.Session
	api  *api.Client
	cart *cart.Synchronizer
}

func main() {
	env.Load(".env", ".env.local")
	envDefaults := config.EnvDefaults()

	baseURL := flag.String("base-url", envDefaults.BaseURL, "")
	timeout := flag.Int("timeout", envDefaults.TimeoutSeconds, "request timeout in seconds")
	tokenFile := flag.String("token-file", envDefaults.TokenFile, "")
	logJSON := flag.Bool("log-json", envDefaults.LogJSON, "")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg := config.Config{
		BaseURL:        *baseURL,
		TimeoutSeconds: *timeout,
		TokenFile:      *tokenFile,
		LogJSON:        *logJSON,
	}

	a := newApp(cfg)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	ctx := context.Background()
	if err := a.run(ctx, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(cfg config.Config) *app {
	var h slog.Handler
	if cfg.LogJSON {
		h = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	}
	log := slog.New(h)

	sess := session.New(cfg.TokenFile)
	client := &api.Client{
		BaseURL: cfg.BaseURL,
		HTTP:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		Creds:   sess,
	}
	sync := cart.NewSynchronizer(client, sess, cart.NewResolver(client), log)
	return &app{cfg: cfg, log: log, sess: sess, api: client, cart: sync}
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "register":
		return a.cmdRegister(ctx, rest)
	case "logout":
		return a.sess.Clear()
	case "whoami":
		return a.cmdWhoami()
	case "outlets":
		return a.printJSONFrom(a.api.Outlets(ctx))
	case "menu":
		if len(rest) != 1 {
			return fmt.Errorf("menu: outlet id required")
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("menu: invalid outlet id %q", rest[0])
		}
		return a.printJSONFrom(a.api.Menu(ctx, id))
	case "cart":
		return a.cmdCart(ctx, rest)
	case "checkout":
		return a.cmdCheckout(ctx, rest)
	case "track":
		if len(rest) != 1 {
			return fmt.Errorf("track: token required")
		}
		tracker := order.NewTracker(a.api)
		o, err := tracker.Lookup(ctx, rest[0])
		if err != nil {
			return err
		}
		return printJSON(o)
	case "orders":
		return a.printJSONFrom(a.api.MyOrders(ctx))
	case "owner":
		return a.cmdOwner(ctx, rest)
	case "admin":
		return a.cmdAdmin(ctx, rest)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "")
	password := fs.String("password", "", "")
	fs.Parse(args)
	if *email == "" || *password == "" {
		return fmt.Errorf("login: -email and -password are required")
	}
	resp, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.sess.SetCredential(resp.Token, resp.User); err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", resp.Name, resp.Role)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "")
	email := fs.String("email", "", "")
	password := fs.String("password", "", "")
	owner := fs.Bool("owner", false, "register as an outlet owner (needs admin approval)")
	fs.Parse(args)
	if *name == "" || *email == "" || *password == "" {
		return fmt.Errorf("register: -name, -email and -password are required")
	}
	role := domain.RoleCustomer
	if *owner {
		role = domain.RoleOwner
	}
	u, err := a.api.Register(ctx, api.RegisterRequest{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Role:     role,
	})
	if err != nil {
		return err
	}
	if u.Status == domain.UserPending {
		fmt.Println("registered; waiting for admin approval")
		return nil
	}
	fmt.Println("registered; run `eatorbit login` to sign in")
	return nil
}

func (a *app) cmdWhoami() error {
	u, ok := a.sess.User()
	if !ok {
		fmt.Println("not signed in")
		return nil
	}
	return printJSON(u)
}

func (a *app) cmdCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "show":
		c, err := a.cart.Fetch(ctx)
		if err != nil {
			return err
		}
		return printJSON(c)
	case "add":
		if len(rest) != 2 {
			return fmt.Errorf("cart add: food id and quantity required")
		}
		foodID, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("cart add: invalid food id %q", rest[0])
		}
		qty, err := strconv.Atoi(rest[1])
		if err != nil || qty < 1 {
			return fmt.Errorf("cart add: invalid quantity %q", rest[1])
		}
		if _, err := a.cart.Fetch(ctx); err != nil {
			return err
		}
		if err := a.cart.Add(ctx, foodID, qty); err != nil {
			return err
		}
		return printJSON(a.cart.View())
	case "inc", "dec", "rm":
		if len(rest) != 1 {
			return fmt.Errorf("cart %s: cart item id required", sub)
		}
		itemID, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("cart %s: invalid cart item id %q", sub, rest[0])
		}
		if _, err := a.cart.Fetch(ctx); err != nil {
			return err
		}
		switch sub {
		case "inc":
			err = a.cart.ChangeQuantity(ctx, itemID, 1)
		case "dec":
			err = a.cart.ChangeQuantity(ctx, itemID, -1)
		case "rm":
			err = a.cart.Remove(ctx, itemID)
		}
		if err != nil {
			return err
		}
		return printJSON(a.cart.View())
	default:
		return fmt.Errorf("unknown cart command %q", sub)
	}
}

func (a *app) cmdCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	method := fs.String("method", string(domain.PaymentUPI), "payment method, UPI or CASH")
	paid := fs.Bool("paid", false, "confirm the payment was completed")
	fs.Parse(args)

	pm := domain.PaymentMethod(*method)
	if pm != domain.PaymentUPI && pm != domain.PaymentCash {
		return fmt.Errorf("checkout: unknown payment method %q", *method)
	}

	if _, err := a.cart.Fetch(ctx); err != nil {
		return err
	}
	flow := order.NewFlow(a.api, a.cart, a.log)
	flow.SetPaymentConfirmed(*paid || pm == domain.PaymentCash)

	o, err := flow.Place(ctx, pm)
	if err != nil {
		if reason := flow.FailureReason(); reason != "" {
			return fmt.Errorf("order was not placed: %s", reason)
		}
		return err
	}
	fmt.Printf("order placed, token %s\n", o.TokenNumber)
	return printJSON(o)
}

func (a *app) printJSONFrom(v any, err error) error {
	if err != nil {
		return err
	}
	return printJSON(v)
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
