package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"eatorbit-client/internal/api"
	"eatorbit-client/internal/domain"
)

func (a *app) cmdOwner(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("owner: subcommand required")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "outlets":
		return a.printJSONFrom(a.api.OwnerOutlets(ctx))
	case "create-outlet":
		fs := flag.NewFlagSet("owner create-outlet", flag.ExitOnError)
		name := fs.String("name", "", "")
		location := fs.String("location", "", "")
		fs.Parse(rest)
		if *name == "" {
			return fmt.Errorf("create-outlet: -name is required")
		}
		return a.printJSONFrom(a.api.CreateOutlet(ctx, domain.Outlet{OutletName: *name, Location: *location}))
	case "update-outlet":
		if len(rest) < 1 {
			return fmt.Errorf("update-outlet: outlet id required")
		}
		id, err := parseID(rest[0], "outlet")
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("owner update-outlet", flag.ExitOnError)
		name := fs.String("name", "", "")
		location := fs.String("location", "", "")
		fs.Parse(rest[1:])
		return a.printJSONFrom(a.api.UpdateOutlet(ctx, domain.Outlet{OutletID: id, OutletName: *name, Location: *location}))
	case "foods":
		outletID, err := outletFlag(rest, "owner foods")
		if err != nil {
			return err
		}
		return a.printJSONFrom(a.api.OwnerFoods(ctx, outletID))
	case "add-food":
		req, err := foodFlags(rest, "owner add-food")
		if err != nil {
			return err
		}
		return a.printJSONFrom(a.api.AddFood(ctx, req))
	case "update-food":
		if len(rest) < 1 {
			return fmt.Errorf("update-food: food id required")
		}
		id, err := parseID(rest[0], "food")
		if err != nil {
			return err
		}
		req, err := foodFlags(rest[1:], "owner update-food")
		if err != nil {
			return err
		}
		return a.printJSONFrom(a.api.UpdateFood(ctx, id, req))
	case "rm-food":
		if len(rest) != 1 {
			return fmt.Errorf("rm-food: food id required")
		}
		id, err := parseID(rest[0], "food")
		if err != nil {
			return err
		}
		return a.api.DeleteFood(ctx, id)
	case "orders":
		outletID, err := outletFlag(rest, "owner orders")
		if err != nil {
			return err
		}
		return a.printJSONFrom(a.api.OwnerOrders(ctx, outletID))
	case "status":
		if len(rest) != 2 {
			return fmt.Errorf("status: order id and new status required")
		}
		id, err := parseID(rest[0], "order")
		if err != nil {
			return err
		}
		return a.printJSONFrom(a.api.UpdateOrderStatus(ctx, id, domain.OrderStatus(rest[1])))
	case "upi-qr":
		outletID, err := outletFlag(rest, "owner upi-qr")
		if err != nil {
			return err
		}
		return a.printJSONFrom(a.api.UpiQR(ctx, outletID))
	case "set-upi-qr":
		fs := flag.NewFlagSet("owner set-upi-qr", flag.ExitOnError)
		outletID := fs.Int64("outlet", 0, "")
		upiID := fs.String("upi-id", "", "")
		payee := fs.String("payee", "", "")
		imageURL := fs.String("image-url", "", "")
		fs.Parse(rest)
		if *outletID == 0 || *upiID == "" {
			return fmt.Errorf("set-upi-qr: -outlet and -upi-id are required")
		}
		return a.printJSONFrom(a.api.SetUpiQR(ctx, domain.UpiQR{
			OutletID: *outletID,
			UpiID:    *upiID,
			Payee:    *payee,
			ImageURL: *imageURL,
		}))
	default:
		return fmt.Errorf("unknown owner command %q", sub)
	}
}

func (a *app) cmdAdmin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("admin: subcommand required")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "users":
		return a.printJSONFrom(a.api.Users(ctx))
	case "pending-vendors":
		return a.printJSONFrom(a.api.PendingVendors(ctx))
	case "approve":
		if len(rest) != 1 {
			return fmt.Errorf("approve: vendor id required")
		}
		id, err := parseID(rest[0], "vendor")
		if err != nil {
			return err
		}
		return a.printJSONFrom(a.api.ApproveVendor(ctx, id))
	case "reject":
		if len(rest) != 1 {
			return fmt.Errorf("reject: vendor id required")
		}
		id, err := parseID(rest[0], "vendor")
		if err != nil {
			return err
		}
		return a.printJSONFrom(a.api.RejectVendor(ctx, id))
	case "outlets":
		return a.printJSONFrom(a.api.AdminOutlets(ctx))
	case "orders":
		return a.printJSONFrom(a.api.AdminOrders(ctx))
	case "rm-user":
		if len(rest) != 1 {
			return fmt.Errorf("rm-user: user id required")
		}
		id, err := parseID(rest[0], "user")
		if err != nil {
			return err
		}
		return a.api.DeleteUser(ctx, id)
	default:
		return fmt.Errorf("unknown admin command %q", sub)
	}
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}

func outletFlag(args []string, name string) (int64, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	outletID := fs.Int64("outlet", 0, "")
	fs.Parse(args)
	if *outletID == 0 {
		return 0, fmt.Errorf("%s: -outlet is required", name)
	}
	return *outletID, nil
}

func foodFlags(args []string, name string) (api.FoodItemRequest, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	outletID := fs.Int64("outlet", 0, "")
	foodName := fs.String("name", "", "")
	desc := fs.String("desc", "", "")
	category := fs.String("category", "", "")
	price := fs.Float64("price", 0, "")
	available := fs.Bool("available", true, "")
	fs.Parse(args)
	if *outletID == 0 || *foodName == "" || *price <= 0 {
		return api.FoodItemRequest{}, fmt.Errorf("%s: -outlet, -name and a positive -price are required", name)
	}
	return api.FoodItemRequest{
		OutletID:    *outletID,
		FoodName:    *foodName,
		Description: *desc,
		Category:    *category,
		Price:       *price,
		Available:   *available,
	}, nil
}
