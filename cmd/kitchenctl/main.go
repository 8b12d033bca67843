// Command kitchenctl is a small terminal companion for the kitchen
// board. It signs in with the staff PIN and prints the current orders,
// which is handy when the dashboard is out of reach.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tacosmaster/taqueria-api/internal/models"
)

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ordersResponse struct {
	Orders      []models.OrderWithItems `json:"orders"`
	ActiveCount int                     `json:"activeCount"`
}

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Base URL of the ordering API")
	pin := flag.String("pin", "", "Kitchen staff PIN")
	status := flag.String("status", "", "Only show orders in this status")
	flag.Parse()

	if *pin == "" {
		fmt.Fprintln(os.Stderr, "kitchenctl: -pin is required")
		os.Exit(2)
	}

	client := resty.New().
		SetBaseURL(*apiURL).
		SetTimeout(10 * time.Second)

	token, err := login(client, *pin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kitchenctl: login failed: %v\n", err)
		os.Exit(1)
	}

	orders, err := fetchOrders(client, token, *status)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kitchenctl: %v\n", err)
		os.Exit(1)
	}

	printOrders(orders)
}

func login(client *resty.Client, pin string) (string, error) {
	var out loginResponse
	resp, err := client.R().
		SetBody(map[string]string{"pin": pin}).
		SetResult(&out).
		Post("/api/kitchen/login")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("login rejected: %s", resp.Status())
	}
	return out.Token, nil
}

func fetchOrders(client *resty.Client, token, status string) (*ordersResponse, error) {
	req := client.R().
		SetAuthToken(token).
		SetResult(&ordersResponse{})
	if status != "" {
		req.SetQueryParam("status", status)
	}
	resp, err := req.Get("/api/kitchen/orders")
	if err != nil {
		return nil, fmt.Errorf("fetching orders: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching orders: %s", resp.Status())
	}
	return resp.Result().(*ordersResponse), nil
}

func printOrders(out *ordersResponse) {
	if len(out.Orders) == 0 {
		fmt.Println("No orders on the board.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tMODE\tCUSTOMER\tITEMS\tTOTAL\tPLACED")
	for _, o := range out.Orders {
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		fmt.Fprintf(w, "%.8s\t%s\t%s\t%s\t%d\t$%.2f\t%s\n",
			o.ID, o.Status, o.Mode, o.CustomerName, items, o.Total,
			o.CreatedAt.Local().Format("15:04"),
		)
	}
	w.Flush()

	fmt.Printf("\n%d order(s), %d active\n", len(out.Orders), out.ActiveCount)
}
