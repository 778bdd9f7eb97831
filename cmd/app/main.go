package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/agromart/client/internal/catalog"
	"github.com/agromart/client/internal/config"
	"github.com/agromart/client/internal/controller"
	"github.com/agromart/client/internal/gateway"
	"github.com/agromart/client/internal/order"
	"github.com/agromart/client/internal/session"
)

// main wires the client session: gateway, catalog cache, persisted cart
// and the controller, then drives it from a line-command loop.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	role := flag.String("role", "customer", "session role: customer, seller or admin")
	flag.Parse()

	ctx := context.Background()
	client := gateway.NewClient(cfg.APIBaseURL)
	if err := client.StartSession(ctx, *role); err != nil {
		log.Fatalf("could not start session with %s: %v", cfg.APIBaseURL, err)
	}

	storage, err := session.NewStorage(cfg.DataDir)
	if err != nil {
		log.Fatalf("session storage: %v", err)
	}

	cache := catalog.NewCache(client)
	ctrl := controller.New(client, cache, controller.Options{
		Storage:     storage,
		ShippingFee: cfg.ShippingFee,
		DemoMode:    cfg.DemoMode,
		Notifier: controller.NotifierFunc(func(msg string) {
			fmt.Println("! " + msg)
		}),
		Renderer: controller.RendererFunc(func(v controller.View) {
			fmt.Printf("-- %d products | cart: %d items, subtotal %.2f, total %.2f --\n",
				len(v.Products), v.Cart.ItemCount, v.Cart.Subtotal, v.Total)
		}),
	})

	if err := ctrl.OnStart(ctx); err != nil {
		log.Fatalf("could not load catalog from %s: %v", cfg.APIBaseURL, err)
	}

	fmt.Println("agromart client ready; type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			printHelp()
		case "list":
			printCatalog(ctrl.View())
		case "search":
			ctrl.OnSearch(ctx, strings.Join(fields[1:], " "))
			printCatalog(ctrl.View())
		case "add":
			if id, ok := argInt(fields, 1); ok {
				ctrl.OnAddToCart(id)
			}
		case "qty":
			if id, ok := argInt(fields, 1); ok {
				if qty, ok := argInt(fields, 2); ok {
					ctrl.OnChangeQuantity(id, qty)
				}
			}
		case "rm":
			if id, ok := argInt(fields, 1); ok {
				ctrl.OnRemoveFromCart(id)
			}
		case "cart":
			printCart(ctrl.View())
		case "checkout":
			ctrl.OnCheckout(ctx, promptCheckout(scanner))
		case "refresh":
			ctrl.OnRefreshCatalog(ctx)
		case "orders":
			ctrl.OnRefreshOrders(ctx)
			printOrders(ctrl.View())
		case "status":
			if len(fields) == 3 {
				ctrl.OnUpdateOrderStatus(ctx, fields[1], fields[2])
			} else {
				fmt.Println("usage: status <order-id> <status>")
			}
		case "role":
			ctrl.OnToggleRole(ctx)
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command; type 'help'")
		}
	}
}

func argInt(fields []string, i int) (int, bool) {
	if len(fields) <= i {
		fmt.Println("missing argument")
		return 0, false
	}
	n, err := strconv.Atoi(fields[i])
	if err != nil {
		fmt.Printf("not a number: %s\n", fields[i])
		return 0, false
	}
	return n, true
}

func printHelp() {
	fmt.Println(`commands:
  list                     show the catalog
  search <query>           search products
  add <id>                 add one unit to the cart
  qty <id> <n>             set a cart quantity (0 removes)
  rm <id>                  remove a cart line
  cart                     show the cart
  checkout                 place the order
  refresh                  re-fetch the catalog
  orders                   list orders
  status <id> <status>     request an order status change
  role                     toggle the demo view role
  quit`)
}

func printCatalog(v controller.View) {
	for _, p := range v.Products {
		line := fmt.Sprintf("%3d  %-22s %8.2f/%-5s stock %3d", p.ID, p.Name, p.Price, p.Unit, p.Stock)
		if p.CanEdit {
			line += "  [edit|delete|toggle " + p.Status + "]"
		} else if p.ShowAddToCart && !p.AddToCartEnabled {
			line += "  [add-to-cart disabled]"
		}
		if p.InCartQty > 0 {
			line += fmt.Sprintf("  (in cart: %d)", p.InCartQty)
		}
		fmt.Println(line)
	}
}

func printCart(v controller.View) {
	if len(v.Cart.Lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, l := range v.Cart.Lines {
		fmt.Printf("%3d  %-22s x%-3d @ %.2f = %.2f\n", l.ProductID, l.Name, l.Quantity, l.UnitPrice, l.LineTotal)
	}
	fmt.Printf("subtotal %.2f + shipping %.2f = total %.2f\n", v.Cart.Subtotal, v.Shipping, v.Total)
}

func printOrders(v controller.View) {
	if len(v.Orders) == 0 {
		fmt.Println("no orders")
		return
	}
	for _, o := range v.Orders {
		fmt.Printf("%s  %-10s total %.2f  %s\n", o.ID, o.Status, o.Total, o.CustomerName)
	}
}

func promptCheckout(scanner *bufio.Scanner) order.CheckoutForm {
	var form order.CheckoutForm
	prompts := []struct {
		label string
		dst   *string
	}{
		{"name", &form.CustomerName},
		{"email", &form.CustomerEmail},
		{"phone", &form.CustomerPhone},
		{"shipping address", &form.ShippingAddress},
		{"payment method (" + strings.Join(order.PaymentMethods, "/") + ")", &form.PaymentMethod},
	}
	for _, p := range prompts {
		fmt.Printf("%s: ", p.label)
		if !scanner.Scan() {
			break
		}
		*p.dst = strings.TrimSpace(scanner.Text())
	}
	return form
}
