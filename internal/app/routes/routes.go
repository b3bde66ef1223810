package routes

import (
	"github.com/gin-gonic/gin"

	appauth "github.com/jdelacruz/schoolrecords/internal/app/auth"
	"github.com/jdelacruz/schoolrecords/internal/app/controllers"
	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	subjectController *controllers.SubjectController,
	gradeController *controllers.GradeController,
	enrollmentController *controllers.EnrollmentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
		auth.POST("/logout", authController.Logout)
	}

	v1.GET("/csrf", authController.CSRF)

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewAPIResponse(gin.H{"status": "ok"}))
	})

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.Authenticate())
	{
		authenticated.POST("/auth/logout-all", authController.LogoutAll)

		students := authenticated.Group("/students")
		{
			// Profile CRUD is teacher territory.
			studentsWrite := students.Group("")
			studentsWrite.Use(authMiddleware.RequireOperation(appauth.OpStudentWrite))
			{
				studentsWrite.POST("", studentController.CreateStudent)
				studentsWrite.PUT("/:studentId", studentController.UpdateStudent)
				studentsWrite.DELETE("/:studentId", studentController.DeleteStudent)
				studentsWrite.POST("/:studentId/image", studentController.UploadStudentImage)
			}

			studentsRead := students.Group("")
			studentsRead.Use(authMiddleware.RequireOperation(appauth.OpStudentRead))
			{
				studentsRead.GET("", studentController.ListStudents)
				studentsRead.GET("/:studentId", studentController.GetStudent)
			}

			// Per-student grade and enrollment views allow the student
			// themselves; the controllers apply the ownership check.
			studentsGrades := students.Group("")
			studentsGrades.Use(authMiddleware.RequireOperation(appauth.OpGradeRead))
			{
				studentsGrades.GET("/:studentId/grades", gradeController.ListStudentGrades)
			}

			studentsEnrollRead := students.Group("")
			studentsEnrollRead.Use(authMiddleware.RequireOperation(appauth.OpEnrollmentRead))
			{
				studentsEnrollRead.GET("/:studentId/enrollments", enrollmentController.ListStudentEnrollments)
			}

			studentsEnrollWrite := students.Group("")
			studentsEnrollWrite.Use(authMiddleware.RequireOperation(appauth.OpEnrollmentWrite))
			{
				studentsEnrollWrite.POST("/:studentId/enroll", enrollmentController.Enroll)
				studentsEnrollWrite.POST("/:studentId/unenroll", enrollmentController.Unenroll)
			}
		}

		subjects := authenticated.Group("/subjects")
		{
			subjectsRead := subjects.Group("")
			subjectsRead.Use(authMiddleware.RequireOperation(appauth.OpSubjectRead))
			{
				subjectsRead.GET("", subjectController.ListSubjects)
				subjectsRead.GET("/:code", subjectController.GetSubject)
			}

			subjectsWrite := subjects.Group("")
			subjectsWrite.Use(authMiddleware.RequireOperation(appauth.OpSubjectWrite))
			{
				subjectsWrite.POST("", subjectController.CreateSubject)
				subjectsWrite.PUT("/:code", subjectController.UpdateSubject)
				subjectsWrite.DELETE("/:code", subjectController.DeleteSubject)
			}
		}

		grades := authenticated.Group("/grades")
		{
			gradesRead := grades.Group("")
			gradesRead.Use(authMiddleware.RequireOperation(appauth.OpGradeRead))
			{
				gradesRead.GET("", gradeController.ListGrades)
				gradesRead.GET("/:id", gradeController.GetGrade)
			}

			gradesWrite := grades.Group("")
			gradesWrite.Use(authMiddleware.RequireOperation(appauth.OpGradeWrite))
			{
				gradesWrite.POST("", gradeController.CreateGrade)
				gradesWrite.PUT("/:id", gradeController.UpdateGrade)
				gradesWrite.DELETE("/:id", gradeController.DeleteGrade)
			}
		}

		enrollments := authenticated.Group("/enrollments")
		{
			enrollmentsRead := enrollments.Group("")
			enrollmentsRead.Use(authMiddleware.RequireOperation(appauth.OpEnrollmentRead))
			{
				enrollmentsRead.GET("", enrollmentController.ListEnrollments)
				enrollmentsRead.GET("/:id", enrollmentController.GetEnrollment)
			}

			enrollmentsWrite := enrollments.Group("")
			enrollmentsWrite.Use(authMiddleware.RequireOperation(appauth.OpEnrollmentWrite))
			{
				enrollmentsWrite.POST("", enrollmentController.CreateEnrollment)
				enrollmentsWrite.DELETE("/:id", enrollmentController.DeleteEnrollment)
			}
		}
	}
}
