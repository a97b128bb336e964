// cartctl drives the cart synchronization service from the command
// line: a guest cart lives in a local file, a user cart lives on the
// storefront backend, and "login" merges the former into the latter.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/crunky0/cs308project/internal/cache"
	"github.com/crunky0/cs308project/internal/cartapi"
	"github.com/crunky0/cs308project/internal/catalog"
	"github.com/crunky0/cs308project/internal/domain"
	"github.com/crunky0/cs308project/internal/service"
	"github.com/crunky0/cs308project/internal/store"
)

type Config struct {
	APIBaseURL string
	SlotPath   string
	RedisAddr  string
	Timeout    time.Duration
}

func loadConfig() *Config {
	return &Config{
		APIBaseURL: getEnv("STORE_API_URL", "http://localhost:8090"),
		SlotPath:   getEnv("GUEST_CART_FILE", defaultSlotPath()),
		RedisAddr:  getEnv("REDIS_ADDR", ""),
		Timeout:    30 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultSlotPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "guest-cart.json"
	}
	return filepath.Join(home, ".cartctl", "guest-cart.json")
}

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var userID int64

	root := &cobra.Command{
		Use:           "cartctl",
		Short:         "Storefront cart from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Int64Var(&userID, "user", 0, "authenticated user id (0 = guest)")

	subject := func() domain.Subject {
		if userID == 0 {
			return domain.Guest()
		}
		return domain.User(userID)
	}

	cfg := loadConfig()
	svc, cleanup := buildService(cfg, logger)
	defer cleanup()

	var quantity int
	addCmd := &cobra.Command{
		Use:   "add <productid>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			cart, err := svc.AddToCart(cmd.Context(), subject(), productID, quantity)
			if err != nil {
				return err
			}
			printCart(cart)
			return nil
		},
	}
	addCmd.Flags().IntVarP(&quantity, "qty", "q", 1, "quantity to add")

	removeCmd := &cobra.Command{
		Use:   "remove <productid>",
		Short: "Remove a product's line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			cart, err := svc.RemoveFromCart(cmd.Context(), subject(), productID)
			if err != nil {
				return err
			}
			printCart(cart)
			return nil
		},
	}

	quantityCmd := func(use, short string, increment bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <productid>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				productID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid product id %q", args[0])
				}
				cart, err := svc.UpdateQuantity(cmd.Context(), subject(), productID, increment)
				if err != nil {
					return err
				}
				printCart(cart)
				return nil
			},
		}
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Fetch and display the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cart, err := svc.FetchCart(cmd.Context(), subject())
			if err != nil {
				return err
			}
			printCart(cart)
			return nil
		},
	}

	loginCmd := &cobra.Command{
		Use:   "login <userid>",
		Short: "Merge the guest cart into a user's server cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			mergeErr := svc.MergeGuestCart(cmd.Context(), id)
			cart, err := svc.FetchCart(cmd.Context(), domain.User(id))
			if err != nil {
				return err
			}
			printCart(cart)
			return mergeErr
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the local cart state and guest slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return svc.ClearCart()
		},
	}

	root.AddCommand(
		showCmd,
		addCmd,
		removeCmd,
		quantityCmd("increase", "Increase a line's quantity by one", true),
		quantityCmd("decrease", "Decrease a line's quantity by one", false),
		loginCmd,
		clearCmd,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func buildService(cfg *Config, logger *zap.Logger) (*service.CartService, func()) {
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.Timeout,
	}

	cleanup := func() {}
	var productCache cache.ProductCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		productCache = cache.NewRedisCache(redisClient)
		cleanup = func() { _ = redisClient.Close() }
	}

	svc := service.NewCartService(
		catalog.NewClient(cfg.APIBaseURL, httpClient, productCache, logger),
		cartapi.NewClient(cfg.APIBaseURL, httpClient),
		store.NewFileStore(cfg.SlotPath),
		logger,
	)
	return svc, cleanup
}

func printCart(cart *domain.Cart) {
	if cart.IsEmpty() {
		fmt.Println("cart is empty")
		return
	}
	for _, l := range cart.Lines {
		price := l.EffectivePrice()
		fmt.Printf("%8d  %-30s x%-3d  %8s  %10s\n",
			l.ProductID, l.Name, l.Quantity, price.StringFixed(2), l.TotalPrice.StringFixed(2))
	}
	fmt.Printf("%*s  %10s\n", 54, "total", cart.Total().StringFixed(2))
}
