package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-access/internal/auth"
	"github.com/spec-kit/crm-access/internal/config"
	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/internal/observability"
	"github.com/spec-kit/crm-access/internal/persistence"
	"github.com/spec-kit/crm-access/internal/repository"
	"github.com/spec-kit/crm-access/internal/repository/memory"
	"github.com/spec-kit/crm-access/internal/service"
	"github.com/spec-kit/crm-access/internal/validation"
	"github.com/spec-kit/crm-access/pkg/util"
)

type app struct {
	auth      *service.AuthService
	clients   *service.ClientService
	staff     *service.StaffService
	contracts *service.ContractService
	events    *service.EventService
	metrics   *observability.Metrics
	logger    *zap.Logger
}

func main() {
	os.Exit(realMain())
}

// realMain exists so deferred cleanup runs before the process exits with a
// status code.
func realMain() int {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var store repository.Store
	if pg.PoolHandle() != nil {
		store = repository.NewStore(pg.PoolHandle())
	} else {
		store = memory.NewStore()
	}

	var cache auth.CredentialCache
	if redis.Ping(ctx) == nil {
		cache = auth.NewRedisCredentialCache(redis.Client, cfg.Auth.Namespace)
	} else {
		cache = auth.NewMemoryCredentialCache()
	}

	authService := service.NewAuthService(*cfg, store, cache, logger)
	resolver := auth.NewResolver(cache, authService.TokenManager(), store)
	guard := auth.NewGuard(resolver, store)
	validator := validation.NewValidator(store)

	a := &app{
		auth:      authService,
		clients:   service.NewClientService(store, guard, validator, logger),
		staff:     service.NewStaffService(*cfg, store, guard, validator, logger),
		contracts: service.NewContractService(store, guard, validator, logger),
		events:    service.NewEventService(store, guard, validator, logger),
		metrics:   observability.NewMetrics(),
		logger:    logger,
	}

	return a.run(ctx, os.Args[1:])
}

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) < 2 {
		usage()
		return 2
	}
	group, action := args[0], args[1]
	rest := args[2:]
	command := group + " " + action
	a.metrics.RecordCommand(command)

	var err error
	switch group {
	case "auth":
		err = a.runAuth(ctx, action, rest)
	case "clients":
		err = a.runClients(ctx, action, rest)
	case "collaborators":
		err = a.runCollaborators(ctx, action, rest)
	case "contracts":
		err = a.runContracts(ctx, action, rest)
	case "events":
		err = a.runEvents(ctx, action, rest)
	default:
		usage()
		return 2
	}

	exit := 0
	if err != nil {
		de := util.ToDomainError(err)
		a.metrics.RecordDenial(command, de.Code)
		if de.Code == util.CodeConflict {
			fmt.Fprintf(os.Stderr, "warning: %s\n", de.Message)
		} else {
			exit = 1
			fmt.Fprintf(os.Stderr, "error: %s\n", de.Message)
			if msgs, ok := de.Details["errors"].([]string); ok {
				for _, m := range msgs {
					fmt.Fprintf(os.Stderr, "  - %s\n", m)
				}
			}
		}
	}

	commands, denials := a.metrics.Snapshot()
	a.logger.Debug("command metrics", zap.Any("commands", commands), zap.Any("denials", denials))
	return exit
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: crm <group> <action> [args]

groups and actions:
  auth           login, logout
  clients        add, view, list, edit, delete
  collaborators  add, view, list, edit, edit-password, delete
  contracts      add, view, list, edit, delete
  events         add, view, list, edit, delete

view/edit/delete take a record id as first argument; list accepts
--filter-field and --filter-value.`)
}

func (a *app) runAuth(ctx context.Context, action string, args []string) error {
	switch action {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		email := fs.String("email", "", "collaborator email")
		password := fs.String("password", "", "collaborator password")
		if err := fs.Parse(args); err != nil {
			return err
		}
		staff, err := a.auth.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Printf("login successful, logged in as %s\n", staff.FullName())
		return nil
	case "logout":
		if err := a.auth.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("successfully logged out")
		return nil
	}
	usage()
	return util.NewInvalidField(fmt.Sprintf("unknown auth action: %s", action))
}

func (a *app) runClients(ctx context.Context, action string, args []string) error {
	switch action {
	case "add", "edit":
		fs := flag.NewFlagSet("clients "+action, flag.ExitOnError)
		firstName := fs.String("first-name", "", "first name of the client")
		lastName := fs.String("last-name", "", "last name of the client")
		email := fs.String("email", "", "email of the client")
		phone := fs.String("phone", "", "phone number of the client")
		companyName := fs.String("company-name", "", "company name of the client")
		lastContact := fs.String("last-contact-date", "", "last contact date (DD/MM/YYYY-HHhMM)")

		id, flagArgs, err := splitID(action, args)
		if err != nil {
			return err
		}
		if err := fs.Parse(flagArgs); err != nil {
			return err
		}
		data := validation.Payload{}
		setIfPresent(fs, data, map[string]any{
			"first-name":        *firstName,
			"last-name":         *lastName,
			"email":             *email,
			"phone":             *phone,
			"company-name":      *companyName,
			"last-contact-date": *lastContact,
		})

		if action == "add" {
			client, err := a.clients.Create(ctx, data)
			if err != nil {
				return err
			}
			fmt.Printf("client %s created (id %d)\n", client.FullName(), client.ID)
			return nil
		}
		if _, err := a.clients.Update(ctx, id, data); err != nil {
			return err
		}
		fmt.Printf("client %d updated successfully\n", id)
		return nil
	case "view":
		id, _, err := splitID(action, args)
		if err != nil {
			return err
		}
		client, err := a.clients.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("id: %d\nname: %s\nemail: %s\nphone: %s\ncompany: %s\ncommercial id: %d\n",
			client.ID, client.FullName(), client.Email, client.Phone, client.CompanyName, client.CommercialID)
		return nil
	case "list":
		field, value, err := parseListFlags("clients list", args, domain.ClientSchema.Names())
		if err != nil {
			return err
		}
		clients, err := a.clients.List(ctx, field, value)
		if err != nil {
			return err
		}
		if len(clients) == 0 {
			fmt.Println("no clients found")
			return nil
		}
		for _, c := range clients {
			fmt.Printf("%d\t%s\t%s\tcommercial %d\n", c.ID, c.FullName(), c.Email, c.CommercialID)
		}
		return nil
	case "delete":
		id, _, err := splitID(action, args)
		if err != nil {
			return err
		}
		if err := a.clients.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("client %d deleted successfully\n", id)
		return nil
	}
	usage()
	return util.NewInvalidField(fmt.Sprintf("unknown clients action: %s", action))
}

func (a *app) runCollaborators(ctx context.Context, action string, args []string) error {
	switch action {
	case "add", "edit":
		fs := flag.NewFlagSet("collaborators "+action, flag.ExitOnError)
		firstName := fs.String("first-name", "", "first name of the collaborator")
		lastName := fs.String("last-name", "", "last name of the collaborator")
		email := fs.String("email", "", "email of the collaborator")
		password := fs.String("password", "", "password for the collaborator")
		role := fs.String("role", "", "role (SALES, SUPPORT or MANAGEMENT)")

		id, flagArgs, err := splitID(action, args)
		if err != nil {
			return err
		}
		if err := fs.Parse(flagArgs); err != nil {
			return err
		}
		data := validation.Payload{}
		setIfPresent(fs, data, map[string]any{
			"first-name": *firstName,
			"last-name":  *lastName,
			"email":      *email,
			"role":       *role,
		})

		if action == "add" {
			data["password"] = *password
			staff, err := a.staff.Create(ctx, data)
			if err != nil {
				return err
			}
			fmt.Printf("collaborator %s created (id %d)\n", staff.FullName(), staff.ID)
			return nil
		}
		if _, err := a.staff.Update(ctx, id, data); err != nil {
			return err
		}
		fmt.Printf("collaborator %d updated successfully\n", id)
		return nil
	case "edit-password":
		fs := flag.NewFlagSet("collaborators edit-password", flag.ExitOnError)
		password := fs.String("password", "", "new password")
		id, flagArgs, err := splitID(action, args)
		if err != nil {
			return err
		}
		if err := fs.Parse(flagArgs); err != nil {
			return err
		}
		if err := a.staff.UpdatePassword(ctx, id, *password); err != nil {
			return err
		}
		fmt.Println("password updated successfully")
		return nil
	case "view":
		id, _, err := splitID(action, args)
		if err != nil {
			return err
		}
		staff, err := a.staff.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("id: %d\nname: %s\nemail: %s\nrole: %s\n", staff.ID, staff.FullName(), staff.Email, staff.Role)
		return nil
	case "list":
		field, value, err := parseListFlags("collaborators list", args, domain.StaffSchema.Names())
		if err != nil {
			return err
		}
		staff, err := a.staff.List(ctx, field, value)
		if err != nil {
			return err
		}
		if len(staff) == 0 {
			fmt.Println("no collaborators found")
			return nil
		}
		for _, s := range staff {
			fmt.Printf("%d\t%s\t%s\t%s\n", s.ID, s.FullName(), s.Email, s.Role)
		}
		return nil
	case "delete":
		id, _, err := splitID(action, args)
		if err != nil {
			return err
		}
		if err := a.staff.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("collaborator %d deleted successfully\n", id)
		return nil
	}
	usage()
	return util.NewInvalidField(fmt.Sprintf("unknown collaborators action: %s", action))
}

func (a *app) runContracts(ctx context.Context, action string, args []string) error {
	switch action {
	case "add", "edit":
		fs := flag.NewFlagSet("contracts "+action, flag.ExitOnError)
		costing := fs.Float64("costing", 0, "costing of the contract")
		remaining := fs.Float64("remaining-due-payment", 0, "remaining due payment")
		signed := fs.Bool("is-signed", false, "whether the contract is signed")
		clientID := fs.Int("client-id", 0, "id of the related client")
		commercialID := fs.Int("commercial-id", 0, "id of the related SALES collaborator")

		id, flagArgs, err := splitID(action, args)
		if err != nil {
			return err
		}
		if err := fs.Parse(flagArgs); err != nil {
			return err
		}
		data := validation.Payload{}
		setIfPresent(fs, data, map[string]any{
			"costing":               *costing,
			"remaining-due-payment": *remaining,
			"is-signed":             *signed,
			"client-id":             *clientID,
			"commercial-id":         *commercialID,
		})

		if action == "add" {
			contract, err := a.contracts.Create(ctx, data)
			if err != nil {
				return err
			}
			fmt.Printf("contract %d created\n", contract.ID)
			return nil
		}
		if _, err := a.contracts.Update(ctx, id, data); err != nil {
			return err
		}
		fmt.Printf("contract %d updated successfully\n", id)
		return nil
	case "view":
		id, _, err := splitID(action, args)
		if err != nil {
			return err
		}
		contract, err := a.contracts.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("id: %d\nclient id: %d\ncommercial id: %d\ncosting: %.2f\nremaining due: %.2f\nsigned: %t\n",
			contract.ID, contract.ClientID, contract.CommercialID, contract.Costing, contract.RemainingDuePayment, contract.Signed)
		return nil
	case "list":
		field, value, err := parseListFlags("contracts list", args, domain.ContractSchema.Names())
		if err != nil {
			return err
		}
		contracts, err := a.contracts.List(ctx, field, value)
		if err != nil {
			return err
		}
		if len(contracts) == 0 {
			fmt.Println("no contracts found")
			return nil
		}
		for _, c := range contracts {
			fmt.Printf("%d\tclient %d\tcommercial %d\tsigned %t\n", c.ID, c.ClientID, c.CommercialID, c.Signed)
		}
		return nil
	case "delete":
		id, _, err := splitID(action, args)
		if err != nil {
			return err
		}
		if err := a.contracts.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("contract %d deleted successfully\n", id)
		return nil
	}
	usage()
	return util.NewInvalidField(fmt.Sprintf("unknown contracts action: %s", action))
}

func (a *app) runEvents(ctx context.Context, action string, args []string) error {
	switch action {
	case "add", "edit":
		fs := flag.NewFlagSet("events "+action, flag.ExitOnError)
		name := fs.String("name", "", "name of the event")
		location := fs.String("location", "", "location of the event")
		attendees := fs.Int("attendees", 0, "number of attendees")
		notes := fs.String("notes", "", "additional notes")
		contractID := fs.Int("contract-id", 0, "id of the related contract")
		startDate := fs.String("start-date", "", "start date (DD/MM/YYYY-HHhMM)")
		endDate := fs.String("end-date", "", "end date (DD/MM/YYYY-HHhMM)")
		supportID := fs.Int("support-id", 0, "id of the related SUPPORT collaborator")

		id, flagArgs, err := splitID(action, args)
		if err != nil {
			return err
		}
		if err := fs.Parse(flagArgs); err != nil {
			return err
		}
		data := validation.Payload{}
		setIfPresent(fs, data, map[string]any{
			"name":        *name,
			"location":    *location,
			"attendees":   *attendees,
			"notes":       *notes,
			"contract-id": *contractID,
			"start-date":  *startDate,
			"end-date":    *endDate,
			"support-id":  *supportID,
		})

		if action == "add" {
			event, err := a.events.Create(ctx, data)
			if err != nil {
				return err
			}
			fmt.Printf("event %s created (id %d)\n", event.Name, event.ID)
			return nil
		}
		if _, err := a.events.Update(ctx, id, data); err != nil {
			return err
		}
		fmt.Printf("event %d updated successfully\n", id)
		return nil
	case "view":
		id, _, err := splitID(action, args)
		if err != nil {
			return err
		}
		event, err := a.events.Get(ctx, id)
		if err != nil {
			return err
		}
		support := 0
		if event.SupportID != nil {
			support = *event.SupportID
		}
		fmt.Printf("id: %d\nname: %s\nlocation: %s\nattendees: %d\ncontract id: %d\nsupport id: %d\n",
			event.ID, event.Name, event.Location, event.Attendees, event.ContractID, support)
		return nil
	case "list":
		field, value, err := parseListFlags("events list", args, domain.EventSchema.Names())
		if err != nil {
			return err
		}
		events, err := a.events.List(ctx, field, value)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("no events found")
			return nil
		}
		for _, e := range events {
			fmt.Printf("%d\t%s\tcontract %d\n", e.ID, e.Name, e.ContractID)
		}
		return nil
	case "delete":
		id, _, err := splitID(action, args)
		if err != nil {
			return err
		}
		if err := a.events.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("event %d deleted successfully\n", id)
		return nil
	}
	usage()
	return util.NewInvalidField(fmt.Sprintf("unknown events action: %s", action))
}

// splitID extracts the positional record id for actions that require one.
func splitID(action string, args []string) (int, []string, error) {
	if action == "add" {
		return 0, args, nil
	}
	if len(args) == 0 {
		return 0, nil, util.NewInvalidField("record id is required")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, nil, util.NewInvalidField(fmt.Sprintf("invalid record id: %s", args[0]))
	}
	return id, args[1:], nil
}

func parseListFlags(name string, args []string, fields []string) (string, string, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	field := fs.String("filter-field", "", fmt.Sprintf("field to filter by (available choices: %v)", fields))
	value := fs.String("filter-value", "", "value to filter by")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	return *field, *value, nil
}

// setIfPresent copies only flags the operator actually passed into the
// payload, preserving partial-update semantics. Flag names use dashes;
// payload fields use underscores.
func setIfPresent(fs *flag.FlagSet, data validation.Payload, byFlag map[string]any) {
	fs.Visit(func(f *flag.Flag) {
		if v, ok := byFlag[f.Name]; ok {
			data[flagToField(f.Name)] = v
		}
	})
}

func flagToField(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '-' {
			out[i] = '_'
		} else {
			out[i] = name[i]
		}
	}
	return string(out)
}
