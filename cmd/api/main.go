package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/worktime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-engine-go/internal/service/approval"
	attendanceService "github.com/cmlabs-hris/attendance-engine-go/internal/service/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/service/file"
	overtimeService "github.com/cmlabs-hris/attendance-engine-go/internal/service/overtime"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
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

	worktimeService, err := worktime.NewService(
		cfg.WorkHours.Timezone,
		cfg.WorkHours.WorkStart,
		cfg.WorkHours.WorkEnd,
		cfg.WorkHours.LateToleranceMinutes,
		cfg.WorkHours.OvertimeStart,
	)
	if err != nil {
		log.Fatal("Invalid work hours configuration: ", err)
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)

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
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, worktimeService, fileService)
	overtimeSvc := overtimeService.NewOvertimeService(db, overtimeRepo, worktimeService, fileService)
	gateway := approval.NewGateway(attendanceSvc, overtimeSvc)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JWT.Secret), nil,
		jwt.WithAcceptableSkew(30*time.Second))

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, gateway)
	overtimeHandler := appHTTP.NewOvertimeHandler(overtimeSvc, gateway)

	router := appHTTP.NewRouter(
		tokenAuth,
		attendanceHandler,
		overtimeHandler,
		cfg.Storage.BasePath,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
