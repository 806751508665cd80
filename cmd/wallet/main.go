// Command wallet is the device-local ticket wallet: it registers against
// the desk, keeps issued tickets in a local cache, exports QR images and
// reconciles the cache with the desk.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/wb-go/wbf/zlog"

	"c2creg/internal/wallet"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	home, _ := os.UserHomeDir()

	var (
		dir       = pflag.String("dir", filepath.Join(home, ".c2c-wallet"), "wallet directory")
		serverURL = pflag.String("server", "http://localhost:8080", "registration desk base URL")

		name           = pflag.String("name", "", "full name (register)")
		instagram      = pflag.String("instagram", "", "instagram handle (register)")
		phone          = pflag.String("phone", "", "phone number (register)")
		cgMember       = pflag.Bool("cg-member", false, "connect-group member (register)")
		cgNumber       = pflag.String("cg-number", "", "connect-group number (register)")
		heardFrom      = pflag.String("heard-from", "", "how you heard about the event (register)")
		heardFromOther = pflag.String("heard-from-other", "", "elaboration when heard-from is Other (register)")
	)
	pflag.Usage = usage
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	store := wallet.NewStore(*dir, wallet.DefaultCutover, &log)
	verifier := wallet.NewHTTPVerifier(*serverURL)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch pflag.Arg(0) {
	case "init":
		if err := store.Initialize(ctx, verifier); err != nil {
			log.Fatal().Err(err).Msg("wallet initialization failed")
		}
		fmt.Printf("wallet ready, %d ticket(s)\n", store.Count())

	case "register":
		desk := wallet.NewDeskClient(*serverURL)
		sub := wallet.RegisterSubmission{
			Name:           *name,
			Instagram:      *instagram,
			PhoneNumber:    *phone,
			IsCGMember:     *cgMember,
			CGNumber:       *cgNumber,
			HeardFrom:      *heardFrom,
			HeardFromOther: *heardFromOther,
		}
		ticketID, qrURL, err := desk.Register(ctx, sub)
		if err != nil {
			log.Fatal().Err(err).Msg("registration failed")
		}
		saved := wallet.SavedTicket{
			TicketID: ticketID,
			QRUrl:    qrURL,
			Name:     *name,
			RegistrationData: &wallet.RegistrationData{
				Instagram:      *instagram,
				PhoneNumber:    *phone,
				IsCGMember:     *cgMember,
				CGNumber:       *cgNumber,
				HeardFrom:      *heardFrom,
				HeardFromOther: *heardFromOther,
			},
		}
		if err := store.Save(saved); err != nil {
			log.Fatal().Err(err).Str("ticket_id", ticketID).Msg("ticket issued but could not be cached")
		}
		fmt.Printf("ticket issued: %s\n", ticketID)

	case "list":
		tickets := store.GetAll()
		if len(tickets) == 0 {
			fmt.Println("no tickets")
			return
		}
		for _, t := range tickets {
			fmt.Printf("%s  %s  saved %s\n", t.TicketID, t.Name,
				time.UnixMilli(t.Timestamp).Format("2006-01-02 15:04"))
		}

	case "show":
		t, ok := requireTicket(store)
		if !ok {
			os.Exit(1)
		}
		fmt.Printf("ticket:    %s\nname:      %s\nsaved:     %s\n",
			t.TicketID, t.Name, time.UnixMilli(t.Timestamp).Format(time.RFC3339))
		if t.RegistrationData != nil {
			fmt.Printf("instagram: %s\nphone:     %s\n",
				t.RegistrationData.Instagram, t.RegistrationData.PhoneNumber)
		}

	case "export":
		t, ok := requireTicket(store)
		if !ok {
			os.Exit(1)
		}
		path, err := store.ExportQR(t)
		if err != nil {
			log.Fatal().Err(err).Msg("export failed")
		}
		fmt.Printf("QR image written to %s\n", path)

	case "reconcile":
		kept, removed, err := store.Reconcile(ctx, verifier)
		if err != nil {
			log.Fatal().Err(err).Msg("reconciliation failed")
		}
		fmt.Printf("kept %d, removed %d\n", kept, removed)

	case "clear":
		if err := store.ClearAll(); err != nil {
			log.Fatal().Err(err).Msg("clear failed")
		}
		fmt.Println("wallet cleared")

	case "count":
		fmt.Println(store.Count())

	default:
		usage()
		os.Exit(2)
	}
}

func requireTicket(store *wallet.Store) (wallet.SavedTicket, bool) {
	if pflag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "ticket id required")
		return wallet.SavedTicket{}, false
	}
	t, ok := store.GetByID(pflag.Arg(1))
	if !ok {
		fmt.Fprintf(os.Stderr, "no ticket %s in wallet\n", pflag.Arg(1))
		return wallet.SavedTicket{}, false
	}
	return t, true
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: wallet [flags] <command>

commands:
  init                 run cutover cleanup, then reconcile with the desk
  register             submit a registration and cache the issued ticket
  list                 list cached tickets
  show <ticket-id>     print one cached ticket
  export <ticket-id>   write the ticket QR image as a PNG file
  reconcile            drop tickets the desk no longer acknowledges
  clear                remove all cached tickets
  count                print the number of cached tickets

flags:
%s`, pflag.CommandLine.FlagUsages())
}
