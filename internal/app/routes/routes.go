package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/personnel/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	employeeController *controllers.EmployeeController,
	employeeAPIController *controllers.EmployeeAPIController,
) {
	// --- HTML pages ---
	router.GET("/", employeeController.Home)
	router.GET("/add", employeeController.NewForm)
	router.POST("/add", employeeController.Create)
	router.GET("/edit/:id", employeeController.EditForm)
	router.POST("/edit/:id", employeeController.Update)
	router.GET("/delete/:id", employeeController.Delete)
	router.GET("/uploads/:filename", employeeController.DownloadResume)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", employeeAPIController.Health)

	employees := v1.Group("/employees")
	{
		employees.GET("", employeeAPIController.ListEmployees)
		employees.GET("/:id", employeeAPIController.GetEmployee)
		employees.POST("", employeeAPIController.CreateEmployee)
		employees.PUT("/:id", employeeAPIController.UpdateEmployee)
		employees.DELETE("/:id", employeeAPIController.DeleteEmployee)
	}
}
