package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/ecommerce-api/internal/app"
	"github.com/linemk/ecommerce-api/internal/app/handlers"
	"github.com/linemk/ecommerce-api/internal/config"
	"github.com/linemk/ecommerce-api/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/ecommerce-api/internal/lib/logger"
	"github.com/linemk/ecommerce-api/internal/lib/logger/handlers/urllog"
	"github.com/linemk/ecommerce-api/internal/lib/mailer"
	"github.com/linemk/ecommerce-api/internal/service"
	"github.com/linemk/ecommerce-api/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	categoryRepo := storage.NewCategoryRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	cartRepo := storage.NewCartRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	dashboardRepo := storage.NewDashboardRepository(application.DB)

	// отправка писем отключается, если SMTP не настроен
	var emailSender mailer.EmailSender
	if cfg.SMTP.Host != "" {
		emailSender = mailer.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}

	authService := service.NewAuthService(application.Logger, userRepo, time.Duration(application.Config.JWT.TokenTTL)*time.Minute)
	categoryService := service.NewCategoryService(application.Logger, categoryRepo)
	productService := service.NewProductService(application.Logger, application.DB, productRepo, categoryRepo)
	cartService := service.NewCartService(application.Logger, application.DB, cartRepo, productRepo)
	orderService := service.NewOrderService(application.Logger, application.DB, orderRepo, productRepo)
	dashboardService := service.NewDashboardService(application.Logger, dashboardRepo)
	checkoutService := service.NewCheckoutService(
		application.Logger, application.DB,
		userRepo, cartRepo, productRepo, orderRepo,
		emailSender, cfg.Shop.OrderBaseURL,
	)

	// эндпоинт для аутентификации
	router.Post("/api/v1/auth", handlers.AuthHandler(application.Logger, authService))

	// публичный каталог
	router.Get("/api/v1/products", handlers.ListProductsHandler(application.Logger, productService))
	router.Get("/api/v1/products/{id}", handlers.GetProductHandler(application.Logger, productService))
	router.Get("/api/v1/categories", handlers.ListCategoriesHandler(application.Logger, categoryService))
	router.Get("/api/v1/categories/{id}", handlers.GetCategoryHandler(application.Logger, categoryService))

	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware()
		r.Use(jwtMW)

		// профиль текущего пользователя
		r.Get("/api/v1/user", handlers.GetUserHandler(application.Logger, authService))

		// корзина текущего пользователя
		r.Get("/api/v1/cart", handlers.GetCartHandler(application.Logger, cartService))
		r.Post("/api/v1/cart/add", handlers.AddToCartHandler(application.Logger, cartService))
		r.Delete("/api/v1/cart/remove", handlers.RemoveFromCartHandler(application.Logger, cartService))

		// оформление заказа по корзине
		r.Post("/api/v1/checkout", handlers.CheckoutHandler(application.Logger, checkoutService))

		// заказы
		r.Get("/api/v1/orders", handlers.ListOrdersHandler(application.Logger, orderService))
		r.Get("/api/v1/orders/{id}", handlers.GetOrderHandler(application.Logger, orderService))

		// административные маршруты: каталог и операции над заказами в обход workflow
		r.Group(func(admin chi.Router) {
			admin.Use(jwtmiddleware.RequireAdmin)

			admin.Get("/api/v1/admin/dashboard/stats", handlers.DashboardStatsHandler(application.Logger, dashboardService))
			admin.Get("/api/v1/admin/orders", handlers.AdminListOrdersHandler(application.Logger, orderService))
			admin.Put("/api/v1/orders/{id}", handlers.UpdateOrderHandler(application.Logger, orderService))
			admin.Delete("/api/v1/orders/{id}", handlers.DeleteOrderHandler(application.Logger, orderService))

			admin.Post("/api/v1/products", handlers.CreateProductHandler(application.Logger, productService))
			admin.Put("/api/v1/products/{id}", handlers.UpdateProductHandler(application.Logger, productService))
			admin.Delete("/api/v1/products/{id}", handlers.DeleteProductHandler(application.Logger, productService))
			admin.Post("/api/v1/categories", handlers.CreateCategoryHandler(application.Logger, categoryService))
			admin.Put("/api/v1/categories/{id}", handlers.UpdateCategoryHandler(application.Logger, categoryService))
			admin.Delete("/api/v1/categories/{id}", handlers.DeleteCategoryHandler(application.Logger, categoryService))
		})
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
