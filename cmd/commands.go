package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"shelfsmart/internal/jobs"
	"shelfsmart/internal/listview"
	"shelfsmart/internal/models"
	"shelfsmart/internal/reports"
	"shelfsmart/internal/services"
)

func newFlags(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: shelfsmart %s\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

// subcommand splits "list|add|edit|delete" off args. list is the default.
func subcommand(args []string) (string, []string) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args[0], args[1:]
	}
	return "list", args
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printPageInfo(w io.Writer, info listview.PageInfo, noun string) {
	if info.Empty {
		fmt.Fprintf(w, "No %s found.\n", noun)
		return
	}
	fmt.Fprintf(w, "Showing %d to %d of %d %s (page %d of %d)\n", info.From, info.To, info.Total, noun, info.Page, info.PageCount)
}

// promptConfirmer asks on the terminal unless yes was given.
func promptConfirmer(in io.Reader, out io.Writer, yes bool) services.Confirmer {
	if yes {
		return services.Confirmed(true)
	}
	reader := bufio.NewReader(in)
	return services.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	})
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login", "login -email EMAIL [-password PASSWORD]")
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("SHELFSMART_PASSWORD"), "account password (default $SHELFSMART_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	profile, err := a.auth().Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", profile.Name, profile.Role)
	return nil
}

func runLogout(ctx context.Context, a *app, args []string) error {
	if err := newFlags("logout", "logout").Parse(args); err != nil {
		return err
	}
	if err := a.auth().Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlags("register", "register -name NAME -email EMAIL -password PASSWORD")
	var req models.RegisterRequest
	fs.StringVar(&req.Name, "name", "", "display name")
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.Password, "password", os.Getenv("SHELFSMART_PASSWORD"), "account password (default $SHELFSMART_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.auth().Register(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Registration successful. Please log in.")
	return nil
}

func runWhoami(_ context.Context, a *app, args []string) error {
	if err := newFlags("whoami", "whoami").Parse(args); err != nil {
		return err
	}
	if !a.session.Authenticated() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	p := a.session.Profile()
	fmt.Fprintf(a.out, "%s <%s> %s\n", p.Name, p.Email, p.Role)
	return nil
}

func printItems(w io.Writer, items []models.InventoryItem) {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tTHRESHOLD\tEXPIRY\tCATEGORY\tSUPPLIER\tSTATUS")
	for _, item := range items {
		status := "OK"
		if item.IsLowStock() {
			status = "LOW"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			item.ID, item.Name, item.Quantity, item.Threshold, item.ExpiryDate, item.Category, item.SupplierName(), status)
	}
	_ = tw.Flush()
}

func runInventory(ctx context.Context, a *app, args []string) error {
	action, args := subcommand(args)
	switch action {
	case "list":
		return inventoryList(ctx, a, args)
	case "add", "edit":
		return inventorySave(ctx, a, action, args)
	case "delete":
		return inventoryDelete(ctx, a, args)
	}
	return fmt.Errorf("unknown inventory action %q (want list, add, edit or delete)", action)
}

func inventoryList(ctx context.Context, a *app, args []string) error {
	fs := newFlags("inventory", "inventory [list] [-search TEXT] [-category NAME] [-page N] [-compact]")
	search := fs.String("search", "", "name filter, searched on the backend")
	category := fs.String("category", models.AllCategories, "category filter")
	page := fs.Int("page", 1, "page number")
	compact := fs.Bool("compact", false, "use the narrow page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	size := a.cfg.Pages.Inventory
	if *compact {
		size = a.cfg.Pages.InventoryCompact
	}
	inventory := a.inventory(services.Confirmed(false), size)
	var err error
	if *search != "" || (*category != "" && *category != models.AllCategories) {
		err = inventory.Search(ctx, *search, *category)
	} else {
		err = inventory.Load(ctx)
	}
	if err != nil {
		return err
	}

	view := inventory.View()
	if err := view.SetPage(*page); err != nil {
		return fmt.Errorf("page %d: %w", *page, err)
	}
	items, info := view.Page()
	printItems(a.out, items)
	printPageInfo(a.out, info, "items")
	return nil
}

func inventorySave(ctx context.Context, a *app, action string, args []string) error {
	fs := newFlags("inventory "+action, "inventory "+action+" [-id ID] -name NAME -quantity N -threshold N -expiry YYYY-MM-DD -category NAME -supplier ID")
	id := fs.Int64("id", 0, "item id (edit only)")
	name := fs.String("name", "", "item name")
	quantity := fs.Int("quantity", 0, "quantity on hand")
	threshold := fs.Int("threshold", 0, "restock threshold")
	expiry := fs.String("expiry", "", "expiry date")
	category := fs.String("category", "", "category")
	supplier := fs.Int64("supplier", 0, "supplier id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireAdmin(); err != nil {
		return err
	}

	inventory := a.inventory(services.Confirmed(false), a.cfg.Pages.Inventory)
	var input models.InventoryInput
	if action == "edit" {
		if *id <= 0 {
			return errors.New("-id is required")
		}
		if err := inventory.Load(ctx); err != nil {
			return err
		}
		current, ok := inventory.View().Find(func(i models.InventoryItem) bool { return i.ID == *id })
		if !ok {
			return fmt.Errorf("inventory item %d not found", *id)
		}
		input = models.InventoryInput{
			Name:       current.Name,
			Quantity:   current.Quantity,
			Threshold:  current.Threshold,
			ExpiryDate: current.ExpiryDate,
			Category:   current.Category,
		}
		if sid, ok := current.ResolvedSupplierID(); ok {
			input.SupplierID = &sid
		}
	}

	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			input.Name = *name
		case "quantity":
			input.Quantity = *quantity
		case "threshold":
			input.Threshold = *threshold
		case "category":
			input.Category = *category
		case "supplier":
			sid := *supplier
			input.SupplierID = &sid
		case "expiry":
			d, err := models.ParseDate(*expiry)
			if err != nil {
				parseErr = err
				return
			}
			input.ExpiryDate = d
		}
	})
	if parseErr != nil {
		return parseErr
	}

	var (
		item *models.InventoryItem
		err  error
	)
	if action == "add" {
		item, err = inventory.Create(ctx, input)
	} else {
		item, err = inventory.Update(ctx, *id, input)
	}
	if err != nil {
		return err
	}
	printItems(a.out, []models.InventoryItem{*item})
	return nil
}

func inventoryDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlags("inventory delete", "inventory delete -id ID [-yes]")
	id := fs.Int64("id", 0, "item id")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireAdmin(); err != nil {
		return err
	}

	inventory := a.inventory(promptConfirmer(a.in, a.out, *yes), a.cfg.Pages.Inventory)
	if err := inventory.Load(ctx); err != nil {
		return err
	}
	if err := inventory.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Item deleted successfully")
	return nil
}

func runConsume(ctx context.Context, a *app, args []string) error {
	fs := newFlags("consume", "consume -id ID -quantity N")
	id := fs.Int64("id", 0, "item id")
	quantity := fs.Int("quantity", 0, "quantity to consume")
	if err := fs.Parse(args); err != nil {
		return err
	}

	inventory := a.inventory(services.Confirmed(false), a.cfg.Pages.Inventory)
	if err := inventory.Load(ctx); err != nil {
		return err
	}
	if !inventory.CanConsume(*id, *quantity) {
		return fmt.Errorf("cannot consume %d from item %d", *quantity, *id)
	}
	if err := inventory.Consume(ctx, *id, *quantity); err != nil {
		return err
	}
	item, _ := inventory.View().Find(func(i models.InventoryItem) bool { return i.ID == *id })
	fmt.Fprintf(a.out, "Consumed %d of %s, %d left\n", *quantity, item.Name, item.Quantity)
	return nil
}

func printSuppliers(w io.Writer, suppliers []models.Supplier) {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tCONTACT\tEMAIL\tADDRESS")
	for _, s := range suppliers {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.ContactInfo, s.Email, s.Address)
	}
	_ = tw.Flush()
}

func runSuppliers(ctx context.Context, a *app, args []string) error {
	action, args := subcommand(args)
	switch action {
	case "list":
		fs := newFlags("suppliers", "suppliers [list] [-search TEXT] [-page N]")
		search := fs.String("search", "", "matches name, email or contact info")
		page := fs.Int("page", 1, "page number")
		if err := fs.Parse(args); err != nil {
			return err
		}
		suppliers := a.suppliers(services.Confirmed(false))
		if err := suppliers.Load(ctx); err != nil {
			return err
		}
		view := suppliers.View()
		view.SetQuery(*search)
		if err := view.SetPage(*page); err != nil {
			return fmt.Errorf("page %d: %w", *page, err)
		}
		rows, info := view.Page()
		printSuppliers(a.out, rows)
		printPageInfo(a.out, info, "suppliers")
		return nil

	case "add", "edit":
		fs := newFlags("suppliers "+action, "suppliers "+action+" [-id ID] -name NAME [-contact TEXT] [-email EMAIL] [-address TEXT]")
		id := fs.Int64("id", 0, "supplier id (edit only)")
		name := fs.String("name", "", "supplier name")
		contact := fs.String("contact", "", "contact info")
		email := fs.String("email", "", "email")
		address := fs.String("address", "", "address")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := a.requireAdmin(); err != nil {
			return err
		}
		suppliers := a.suppliers(services.Confirmed(false))
		if err := suppliers.Load(ctx); err != nil {
			return err
		}

		var input models.SupplierInput
		if action == "edit" {
			current, ok := suppliers.View().Find(func(s models.Supplier) bool { return s.ID == *id })
			if !ok {
				return fmt.Errorf("supplier %d not found", *id)
			}
			input = models.SupplierInput{Name: current.Name, ContactInfo: current.ContactInfo, Email: current.Email, Address: current.Address}
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				input.Name = *name
			case "contact":
				input.ContactInfo = *contact
			case "email":
				input.Email = *email
			case "address":
				input.Address = *address
			}
		})

		var (
			saved *models.Supplier
			err   error
		)
		if action == "add" {
			saved, err = suppliers.Create(ctx, input)
		} else {
			saved, err = suppliers.Update(ctx, *id, input)
		}
		if err != nil {
			return err
		}
		printSuppliers(a.out, []models.Supplier{*saved})
		return nil

	case "delete":
		fs := newFlags("suppliers delete", "suppliers delete -id ID [-yes]")
		id := fs.Int64("id", 0, "supplier id")
		yes := fs.Bool("yes", false, "skip the confirmation prompt")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := a.requireAdmin(); err != nil {
			return err
		}
		suppliers := a.suppliers(promptConfirmer(a.in, a.out, *yes))
		if err := suppliers.Load(ctx); err != nil {
			return err
		}
		if err := suppliers.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Supplier deleted successfully")
		return nil
	}
	return fmt.Errorf("unknown suppliers action %q (want list, add, edit or delete)", action)
}

func runActivity(ctx context.Context, a *app, args []string) error {
	fs := newFlags("activity", "activity [-page N]")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	activity := a.activity()
	if err := activity.Load(ctx); err != nil {
		return err
	}
	view := activity.View()
	if err := view.SetPage(*page); err != nil {
		return fmt.Errorf("page %d: %w", *page, err)
	}
	entries, info := view.Page()

	tw := table(a.out)
	fmt.Fprintln(tw, "TIME\tUSER\tACTION\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.User.Name, e.Action, e.Description)
	}
	_ = tw.Flush()
	printPageInfo(a.out, info, "entries")
	return nil
}

func runReport(ctx context.Context, a *app, args []string) error {
	fs := newFlags("report", "report [-kind daily|weekly|custom] [-start DATE -end DATE] [-download [-format csv|xlsx|pdf] [-out PATH]] [-archive]")
	kind := fs.String("kind", string(models.ReportDaily), "daily, weekly or custom")
	start := fs.String("start", services.DefaultCustomStart.Format(models.DateLayout), "custom report start date")
	end := fs.String("end", services.DefaultCustomEnd.Format(models.DateLayout), "custom report end date")
	download := fs.Bool("download", false, "write the report to a file")
	formatName := fs.String("format", string(reports.FormatCSV), "download format")
	out := fs.String("out", "", "download path (default: generated file name)")
	archive := fs.Bool("archive", false, "upload the report to object storage and print a link")
	if err := fs.Parse(args); err != nil {
		return err
	}
	format, err := reports.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	svc := a.reports()
	k := models.ReportKind(*kind)
	switch k {
	case models.ReportDaily, models.ReportWeekly:
		err = svc.Load(ctx)
	case models.ReportCustom:
		var from, to models.Date
		if from, err = models.ParseDate(*start); err != nil {
			return err
		}
		if to, err = models.ParseDate(*end); err != nil {
			return err
		}
		err = svc.Custom(ctx, from.Time, to.Time)
	default:
		return fmt.Errorf("unknown report kind %q", *kind)
	}
	if err != nil {
		return err
	}

	switch {
	case *archive:
		link, err := svc.Archive(ctx, k, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, link)
	case *download:
		var buf bytes.Buffer
		name, err := svc.Export(&buf, k, format)
		if err != nil {
			return err
		}
		if *out != "" {
			name = *out
		}
		if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		fmt.Fprintf(a.out, "Report downloaded successfully: %s\n", name)
	default:
		movements := svc.Movements(k)
		tw := table(a.out)
		fmt.Fprintln(tw, "MOVEMENT\tITEM\tNAME\tCHANGE\tTYPE\tTIME")
		for _, m := range movements {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%+d\t%s\t%s\n",
				m.MovementID, m.ItemID, m.ItemName, m.QuantityChanged, m.MovementType, m.Timestamp.Local().Format("2006-01-02 15:04"))
		}
		_ = tw.Flush()
		if at, ok := svc.LastGenerated(k); ok {
			fmt.Fprintf(a.out, "Last generated: %s\n", at.Local().Format(time.RFC1123))
		} else {
			fmt.Fprintln(a.out, "No data available")
		}
	}
	return nil
}

func printCounts(w io.Writer, counts models.NotificationCounts) {
	fmt.Fprintf(w, "%s  notifications: %d (low stock: %d, expiring: %d)\n",
		counts.UpdatedAt.Local().Format("15:04:05"), counts.Total(), counts.LowStock, counts.Expiring)
}

func runNotify(ctx context.Context, a *app, args []string) error {
	fs := newFlags("notify", "notify [-watch] [-interval DURATION]")
	watch := fs.Bool("watch", false, "keep polling until interrupted")
	interval := fs.Duration("interval", a.cfg.NotifyInterval(), "poll interval with -watch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc := a.notifications()
	if !*watch {
		n, err := svc.Refresh(ctx)
		if err != nil {
			return err
		}
		printCounts(a.out, n.Counts)
		for _, item := range n.LowStock {
			fmt.Fprintf(a.out, "  low stock: %s (%d left, threshold %d)\n", item.Name, item.Quantity, item.Threshold)
		}
		for _, alert := range n.Expiring {
			fmt.Fprintf(a.out, "  expiring:  %s on %s (%d days)\n", alert.Name, alert.ExpiryDate, alert.DaysLeft)
		}
		return nil
	}

	updates, cancel := svc.Subscribe(1)
	defer cancel()
	scheduler, err := jobs.StartNotificationPoller(svc, *interval, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = scheduler.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case counts, ok := <-updates:
			if !ok {
				return nil
			}
			printCounts(a.out, counts)
		}
	}
}

func runSuggestions(ctx context.Context, a *app, args []string) error {
	if err := newFlags("suggestions", "suggestions").Parse(args); err != nil {
		return err
	}

	suggestions, err := a.notifications().Suggestions(ctx)
	if err != nil {
		return err
	}
	if suggestions.Empty() {
		fmt.Fprintln(a.out, "No suggestions available")
		return nil
	}
	for _, section := range suggestions.Sections() {
		fmt.Fprintf(a.out, "%s\n", section.Name)
		for _, s := range section.Items {
			fmt.Fprintf(a.out, "  %s: %s\n", s.Item, s.Description)
		}
	}
	if len(suggestions.Considerations) > 0 {
		fmt.Fprintln(a.out, models.SectionConsiderations)
		for _, n := range suggestions.Considerations {
			fmt.Fprintf(a.out, "  %s\n", n.Headline())
		}
	}
	return nil
}
