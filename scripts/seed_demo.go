package main

import (
	"fmt"
	"os"

	"github.com/careerhub/careerhub/backend/internal/config"
	"github.com/careerhub/careerhub/backend/internal/models"
	"github.com/careerhub/careerhub/backend/internal/utils"
)

// Seeds a local database with demo accounts and postings. Run from the
// backend directory: go run scripts/seed_demo.go
func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := models.InitDB(&cfg.Database); err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	if err := models.AutoMigrate(); err != nil {
		fmt.Printf("Failed to migrate: %v\n", err)
		os.Exit(1)
	}
	db := models.GetDB()

	password, err := utils.HashPassword("demo1234")
	if err != nil {
		fmt.Printf("Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	users := []models.User{
		{Email: "recruiter@demo.local", Password: password, FullName: "Dana Recruiter", Role: "recruiter", AuthType: "local", IsActive: true},
		{Email: "candidate@demo.local", Password: password, FullName: "Casey Candidate", Role: "candidate", AuthType: "local", IsActive: true},
	}
	for i := range users {
		var existing models.User
		if err := db.Where("email = ?", users[i].Email).First(&existing).Error; err == nil {
			users[i] = existing
			fmt.Printf("User %s already exists, skipping\n", existing.Email)
			continue
		}
		if err := db.Create(&users[i]).Error; err != nil {
			fmt.Printf("Failed to create user %s: %v\n", users[i].Email, err)
			os.Exit(1)
		}
		fmt.Printf("Created user %s (password: demo1234)\n", users[i].Email)
	}

	company := models.Company{
		Name:        "Demo Robotics",
		Description: "A demo company for local development.",
		Industry:    "robotics",
		Location:    "Remote",
		CreatedBy:   users[0].ID,
	}
	var existingCompany models.Company
	if err := db.Where("name = ?", company.Name).First(&existingCompany).Error; err == nil {
		company = existingCompany
		fmt.Printf("Company %s already exists, skipping\n", company.Name)
	} else if err := db.Create(&company).Error; err != nil {
		fmt.Printf("Failed to create company: %v\n", err)
		os.Exit(1)
	} else {
		fmt.Printf("Created company %s\n", company.Name)
	}

	titles := []string{"Backend Engineer", "Frontend Engineer", "Product Designer"}
	for _, title := range titles {
		var count int64
		db.Model(&models.Position{}).Where("company_id = ? AND title = ?", company.ID, title).Count(&count)
		if count > 0 {
			continue
		}
		position := models.Position{
			CompanyID:      company.ID,
			Title:          title,
			Description:    "Demo posting for " + title + ".",
			Location:       "Remote",
			EmploymentType: "full_time",
			IsOpen:         true,
			PostedBy:       users[0].ID,
		}
		if err := db.Create(&position).Error; err != nil {
			fmt.Printf("Failed to create position %s: %v\n", title, err)
			os.Exit(1)
		}
		fmt.Printf("Created position %s\n", title)
	}

	fmt.Println("\nDone.")
}
