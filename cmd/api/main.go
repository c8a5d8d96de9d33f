package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/xrocketry/attendee-backend-go/internal/config"
	appHTTP "github.com/xrocketry/attendee-backend-go/internal/handler/http"
	"github.com/xrocketry/attendee-backend-go/internal/pkg/cron"
	"github.com/xrocketry/attendee-backend-go/internal/pkg/database"
	"github.com/xrocketry/attendee-backend-go/internal/pkg/email"
	"github.com/xrocketry/attendee-backend-go/internal/pkg/jwt"
	"github.com/xrocketry/attendee-backend-go/internal/repository/postgresql"
	attendanceService "github.com/xrocketry/attendee-backend-go/internal/service/attendance"
	serviceAuth "github.com/xrocketry/attendee-backend-go/internal/service/auth"
	userService "github.com/xrocketry/attendee-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal("Invalid APP_TIMEZONE:", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	dayRecordRepo := postgresql.NewDayRecordRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	authSvc := serviceAuth.NewAuthService(userRepo, jwtService)
	userSvc := userService.NewUserService(userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		dayRecordRepo,
		userRepo,
		emailService,
		loc,
		cfg.Attendance.CleanupHour,
		cfg.Attendance.MinDailyHours,
		cfg.Attendance.AdminEmails,
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, loc, cfg.Attendance.CleanupHour, cfg.Attendance.AuditHour).
		RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(authSvc)
	userHandler := appHTTP.NewUserHandler(userSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	router := appHTTP.NewRouter(cfg, jwtService, authHandler, userHandler, attendanceHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
