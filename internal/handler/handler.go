package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/notify"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/timeoff"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	service     *timeoff.Service
	publisher   *notify.Publisher
	translator  ut.Translator
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, svc *timeoff.Service, pub *notify.Publisher, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := registerWeekday(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		service:     svc,
		publisher:   pub,
		translator:  trans,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

// registerWeekday 注册 weekday 规则，取值为 0（周日）到 6（周六）
func registerWeekday(validate *validator.Validate, trans ut.Translator) error {
	err := validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		v := fl.Field().Int()
		return v >= 0 && v <= 6
	})
	if err != nil {
		return err
	}

	return validate.RegisterTranslation("weekday", trans, func(ut ut.Translator) error {
		return ut.Add("weekday", "{0}只能是 0 到 6 之间的整数", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("weekday", fe.Field())
		return t
	})
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
		r.With(h.auth, h.myInfo).Get("/me", h.GetMyInfo)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/onboarding", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.preventOnboardedUser)
			r.Post("/admin", h.OnboardAdmin)
			r.Post("/employee", h.OnboardEmployee)
		})

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/", h.UpdateMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		// 以下 API 需要先加入公司
		r.Group(func(r chi.Router) {
			r.Use(h.onboarded)

			r.Route("/company", func(r chi.Router) {
				r.With(h.allow(timeoff.ActionViewCompany)).Get("/", h.GetCompany)
				r.With(h.allow(timeoff.ActionManageCompany)).Patch("/", h.UpdateCompany)
				r.With(h.allow(timeoff.ActionManageCompany)).Put("/working-days", h.UpdateWorkingDays)
				r.Route("/holidays", func(r chi.Router) {
					r.With(h.allow(timeoff.ActionViewCompany)).Get("/", h.GetHolidays)
					r.With(h.allow(timeoff.ActionManageCompany)).Post("/", h.CreateHoliday)
					r.Route("/{id}", func(r chi.Router) {
						r.Use(h.allow(timeoff.ActionManageCompany))
						r.Use(h.holiday)
						r.Patch("/", h.UpdateHoliday)
						r.Delete("/", h.DeleteHoliday)
					})
				})
			})

			r.Route("/invitation-codes", func(r chi.Router) {
				r.Use(h.allow(timeoff.ActionManageCompany))
				r.Post("/", h.CreateInvitationCode)
				r.Get("/", h.GetInvitationCodes)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Use(h.allow(timeoff.ActionManageAllowance))
				r.Get("/", h.GetEmployees)
				r.Route("/{id}/allowance", func(r chi.Router) {
					r.Put("/", h.SetEmployeeAllowance)
					r.Post("/adjust", h.AdjustEmployeeAllowance)
				})
			})

			r.Route("/time-off-requests", func(r chi.Router) {
				r.Post("/preview", h.PreviewTimeOffRequest)
				r.Post("/", h.CreateTimeOffRequest)
				r.Get("/mine", h.GetMyTimeOffRequests)
				r.With(h.allow(timeoff.ActionListRequests)).Get("/", h.GetCompanyTimeOffRequests)
				r.Route("/{id}", func(r chi.Router) {
					r.With(h.timeOffRequest).Get("/", h.GetTimeOffRequest)
					r.Post("/review", h.ReviewTimeOffRequest)
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.With(h.allow(timeoff.ActionManageCompany)).Get("/admin", h.GetAdminDashboard)
				r.Get("/employee", h.GetEmployeeDashboard)
			})
		})
	})
}
