package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/lumenhr/backoffice-go/internal/config"
	appHTTP "github.com/lumenhr/backoffice-go/internal/handler/http"
	"github.com/lumenhr/backoffice-go/internal/pkg/database"
	"github.com/lumenhr/backoffice-go/internal/pkg/jwt"
	"github.com/lumenhr/backoffice-go/internal/pkg/storage"
	"github.com/lumenhr/backoffice-go/internal/repository/postgresql"
	"github.com/lumenhr/backoffice-go/internal/service/file"
	holidayService "github.com/lumenhr/backoffice-go/internal/service/holiday"
	"github.com/lumenhr/backoffice-go/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveActionRepo := postgresql.NewLeaveActionRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)
	dayCalculator := leave.NewDayCalculator(holidayRepo)
	overlapChecker := leave.NewOverlapChecker(leaveRequestRepo)
	balanceService := leave.NewBalanceService(leaveBalanceRepo)
	typeService := leave.NewTypeService(leaveTypeRepo)
	workflowService := leave.NewWorkflowService(
		transactor,
		employeeRepo,
		leaveTypeRepo,
		leaveRequestRepo,
		leaveActionRepo,
		dayCalculator,
		overlapChecker,
		balanceService,
		fileService,
	)
	holidaySvc := holidayService.NewService(holidayRepo)

	leaveHandler := appHTTP.NewLeaveHandler(workflowService, typeService, balanceService, fileService)
	holidayHandler := appHTTP.NewHolidayHandler(holidaySvc)

	router := appHTTP.NewRouter(JWTService, leaveHandler, holidayHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
