package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lilpaf/Super-Barber-sub000/internal/audit"
	"github.com/lilpaf/Super-Barber-sub000/internal/config"
	domainBooking "github.com/lilpaf/Super-Barber-sub000/internal/domain/booking"
	"github.com/lilpaf/Super-Barber-sub000/internal/handlers"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/identity"
	infraRepo "github.com/lilpaf/Super-Barber-sub000/internal/infra/repository"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/storage"
	"github.com/lilpaf/Super-Barber-sub000/internal/middleware"
	"github.com/lilpaf/Super-Barber-sub000/internal/notify"
	"github.com/lilpaf/Super-Barber-sub000/internal/timezone"
	ucBooking "github.com/lilpaf/Super-Barber-sub000/internal/usecase/booking"
	ucLifecycle "github.com/lilpaf/Super-Barber-sub000/internal/usecase/lifecycle"
)

// Deps are the process-wide collaborators built by main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *zap.Logger
	Locker   domainBooking.SlotLocker
	Images   storage.ImageStore
	Audit    *audit.Dispatcher
	AuditLog *audit.Logger
	Mail     *notify.Dispatcher
	Clock    timezone.Clock
	Location *time.Location
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	lifecycleRepo := infraRepo.NewLifecycleGormRepository(d.DB)
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)
	users := identity.NewGormDirectory(d.DB)

	// ======================================================
	// USE CASES - LIFECYCLE
	// ======================================================
	listShopsUC := ucLifecycle.NewListPublicShops(lifecycleRepo)
	shopDetailsUC := ucLifecycle.NewGetShopDetails(lifecycleRepo)
	createShopUC := ucLifecycle.NewCreateShop(lifecycleRepo, d.Audit, d.Clock)
	editShopUC := ucLifecycle.NewEditShop(lifecycleRepo, d.Audit)
	deleteShopUC := ucLifecycle.NewDeleteShop(lifecycleRepo, d.Audit, d.Clock)
	uploadImageUC := ucLifecycle.NewUploadShopImage(lifecycleRepo, d.Images, d.Audit)

	assignUC := ucLifecycle.NewAssignBarber(lifecycleRepo, d.Audit)
	unassignUC := ucLifecycle.NewUnassignBarber(lifecycleRepo, d.Audit, d.Clock)
	promoteUC := ucLifecycle.NewPromoteOwner(lifecycleRepo, d.Audit)
	demoteUC := ucLifecycle.NewDemoteOwner(lifecycleRepo, d.Audit)
	availabilityUC := ucLifecycle.NewSetAvailability(lifecycleRepo, d.Audit)

	addServiceUC := ucLifecycle.NewAddService(lifecycleRepo, d.Audit)
	removeServiceUC := ucLifecycle.NewRemoveService(lifecycleRepo, d.Audit, d.Clock)

	createBarberUC := ucLifecycle.NewCreateBarber(lifecycleRepo, d.Audit)
	deleteBarberUC := ucLifecycle.NewDeleteBarber(lifecycleRepo, d.Audit, d.Clock)
	deleteAccountUC := ucLifecycle.NewDeleteAccount(lifecycleRepo, d.Audit, d.Clock)

	ownerCheckUC := ucLifecycle.NewShopOwnerCheck(lifecycleRepo)

	// ======================================================
	// USE CASES - BOOKING
	// ======================================================
	bookCartUC := ucBooking.NewBookCart(bookingRepo, d.Locker, d.Audit, d.Clock, d.Location)
	cancelAsCustomerUC := ucBooking.NewCancelAsCustomer(bookingRepo, d.Audit, d.Clock)
	cancelAsBarberUC := ucBooking.NewCancelAsBarber(bookingRepo, d.Audit, d.Clock)
	listMineUC := ucBooking.NewListCustomerOrders(bookingRepo)
	listForBarberUC := ucBooking.NewListBarberOrders(bookingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(users, d.Config.JWTSecret, d.Clock)
	meHandler := handlers.NewMeHandler(users, createBarberUC, deleteBarberUC, deleteAccountUC)

	barbershopHandler := handlers.NewBarbershopHandler(
		listShopsUC,
		shopDetailsUC,
		createShopUC,
		editShopUC,
		deleteShopUC,
		uploadImageUC,
	)

	membershipHandler := handlers.NewMembershipHandler(
		assignUC,
		unassignUC,
		promoteUC,
		demoteUC,
		availabilityUC,
	)

	serviceHandler := handlers.NewServiceHandler(addServiceUC, removeServiceUC)

	orderHandler := handlers.NewOrderHandler(
		bookCartUC,
		cancelAsCustomerUC,
		cancelAsBarberUC,
		listMineUC,
		listForBarberUC,
		users,
		d.Mail,
		d.Location,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditLog, ownerCheckUC)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/barbershops", barbershopHandler.List)
		api.GET(
			"/barbershops/:id",
			middleware.OptionalAuthMiddleware(d.Config.JWTSecret, users),
			barbershopHandler.Get,
		)

		// ------------------------------
		// SECURED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config.JWTSecret, users))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.DELETE("/me", meHandler.DeleteAccount)

			secured.POST("/barbers", meHandler.BecomeBarber)
			secured.DELETE("/barbers/me", meHandler.DeleteBarber)

			// ------------------------------
			// BARBERSHOPS
			// ------------------------------
			secured.POST("/barbershops", barbershopHandler.Create)
			secured.PUT("/barbershops/:id", barbershopHandler.Update)
			secured.DELETE("/barbershops/:id", barbershopHandler.Delete)
			secured.PUT("/barbershops/:id/image", barbershopHandler.UploadImage)
			secured.GET("/barbershops/:id/audit-logs", auditLogsHandler.List)

			secured.POST("/barbershops/:id/barbers", membershipHandler.Assign)
			secured.DELETE("/barbershops/:id/barbers/:barberId", membershipHandler.Unassign)
			secured.PUT("/barbershops/:id/barbers/:barberId/availability", membershipHandler.SetAvailability)
			secured.POST("/barbershops/:id/owners/:barberId", membershipHandler.Promote)
			secured.DELETE("/barbershops/:id/owners/:barberId", membershipHandler.Demote)

			secured.POST("/barbershops/:id/services", serviceHandler.Add)
			secured.DELETE("/barbershops/:id/services/:serviceId", serviceHandler.Remove)

			// ------------------------------
			// ORDERS
			// ------------------------------
			secured.POST("/orders", orderHandler.Book)
			secured.GET("/orders", orderHandler.ListMine)
			secured.PATCH("/orders/:id/cancel", orderHandler.CancelAsCustomer)

			secured.GET("/barbers/me/orders", orderHandler.ListForBarber)
			secured.PATCH("/barbers/:barberId/orders/:id/cancel", orderHandler.CancelAsBarber)
		}
	}
}
