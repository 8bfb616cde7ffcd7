package pupil

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/volatiletech/null/v8"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/guardian"
)

var (
	// errors
	ErrNotFound             = core.NewNotFoundError("pupil")
	ErrRegistrationNotFound = core.NewNotFoundError("registration")
	ErrClassNotFound        = errors.New("selected class does not exist")
	ErrClassFull            = errors.New("selected class has reached its capacity")
	ErrDuplicateGuardian    = errors.New("the same parent/guardian was submitted twice")
	ErrHasOpenCheckouts     = errors.New("pupil still has library books checked out")
)

type (
	Repository interface {
		CreateRegistration(ctx context.Context, reg Registration, exec ...core.DBExecutor) (Registration, error)
		GetRegistration(ctx context.Context, id int64, exec ...core.DBExecutor) (Registration, error)
		UpdateRegistration(ctx context.Context, reg Registration, exec ...core.DBExecutor) (Registration, error)

		CreatePupil(ctx context.Context, p Pupil, exec ...core.DBExecutor) (Pupil, error)
		GetPupil(ctx context.Context, id int64, exec ...core.DBExecutor) (Pupil, error)
		// QueryPupils joins class name and registration status, ordered by last name then first name by default.
		QueryPupils(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Pupil, error)
		UpdatePupil(ctx context.Context, p Pupil, exec ...core.DBExecutor) (Pupil, error)
		// DeletePupil removes the pupil along with its registration, guardian links and returned checkouts.
		DeletePupil(ctx context.Context, p Pupil, exec ...core.DBExecutor) error

		// GetClassOccupancy returns the class capacity and head count, locking the class row
		// for the rest of the transaction where the engine supports it. Returns ErrClassNotFound
		// for unknown classes.
		GetClassOccupancy(ctx context.Context, classID int64, exec ...core.DBExecutor) (Occupancy, error)
		CountOpenCheckouts(ctx context.Context, pupilID int64, exec ...core.DBExecutor) (int, error)

		LinkGuardian(ctx context.Context, pupilID, guardianID int64, relationship string, exec ...core.DBExecutor) error
		UnlinkGuardians(ctx context.Context, pupilID int64, exec ...core.DBExecutor) error
		QueryLinkedGuardians(ctx context.Context, pupilID int64, exec ...core.DBExecutor) ([]LinkedGuardian, error)
	}

	ServiceInterface interface {
		Enroll(ctx context.Context, form EnrollmentForm) (int64, error)
		UpdateEnrollment(ctx context.Context, id int64, form EnrollmentForm) error
		Get(ctx context.Context, id int64) (Enrollment, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Pupil, error)
		Delete(ctx context.Context, id int64) error
	}

	Service struct {
		conf         *core.Config
		logger       core.Logger
		db           core.DB
		repo         Repository
		guardianRepo guardian.Repository
		mailSvc      core.EmailService
		validate     *validator.Validate
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(
	conf *core.Config,
	logger core.Logger,
	db core.DB,
	repo Repository,
	guardianRepo guardian.Repository,
	mailSvc core.EmailService,
	validate *validator.Validate,
) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(conf, "conf"),
		vala.IsNotNil(logger, "logger"),
		vala.IsNotNil(db, "db"),
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(guardianRepo, "guardianRepo"),
		vala.IsNotNil(mailSvc, "mailSvc"),
		vala.IsNotNil(validate, "validate"),
	).CheckAndPanic()

	return &Service{
		conf:         conf,
		logger:       logger,
		db:           db,
		repo:         repo,
		guardianRepo: guardianRepo,
		mailSvc:      mailSvc,
		validate:     validate,
	}
}

func (svc *Service) today() core.Date {
	return core.Today(core.NowFunc(), svc.conf.Location())
}

// Enroll creates a pupil, its registration and its guardian links in one transaction
// and returns the new pupil's id.
func (svc *Service) Enroll(ctx context.Context, form EnrollmentForm) (int64, error) {
	if err := form.Validate(svc.validate, svc.today()); err != nil {
		return 0, err
	}

	var pupilID int64
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if err := svc.checkCapacity(ctx, form.ClassID, tx); err != nil {
			return err
		}

		reg, err := svc.repo.CreateRegistration(ctx, form.registration(), tx)
		if err != nil {
			return err
		}

		p := form.pupil()
		p.RegistrationID = reg.ID
		if p, err = svc.repo.CreatePupil(ctx, p, tx); err != nil {
			return err
		}

		if err = svc.linkGuardians(ctx, p.ID, form.Guardians, tx); err != nil {
			return err
		}
		pupilID = p.ID
		return nil
	})
	if err != nil {
		return 0, core.SaveFailed("enrolling pupil", err)
	}

	svc.sendConfirmation(ctx, pupilID)
	return pupilID, nil
}

// UpdateEnrollment rewrites a pupil, its registration and its guardian links.
// Guardians not resubmitted are unlinked but kept.
func (svc *Service) UpdateEnrollment(ctx context.Context, id int64, form EnrollmentForm) error {
	if err := form.Validate(svc.validate, svc.today()); err != nil {
		return err
	}

	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		orig, err := svc.repo.GetPupil(ctx, id, tx)
		if err != nil {
			return err
		}
		if form.ClassID != orig.ClassID {
			if err = svc.checkCapacity(ctx, form.ClassID, tx); err != nil {
				return err
			}
		}

		reg := form.registration()
		reg.ID = orig.RegistrationID
		if _, err = svc.repo.UpdateRegistration(ctx, reg, tx); err != nil {
			return err
		}

		p := form.pupil()
		p.ID = orig.ID
		p.RegistrationID = orig.RegistrationID
		if _, err = svc.repo.UpdatePupil(ctx, p, tx); err != nil {
			return err
		}

		if err = svc.repo.UnlinkGuardians(ctx, p.ID, tx); err != nil {
			return err
		}
		return svc.linkGuardians(ctx, p.ID, form.Guardians, tx)
	})
	return core.SaveFailed("updating enrollment", err)
}

func (svc *Service) checkCapacity(ctx context.Context, classID int64, tx core.DBExecutor) error {
	occ, err := svc.repo.GetClassOccupancy(ctx, classID, tx)
	if errors.Is(err, ErrClassNotFound) {
		return core.NewRuleError(ErrClassNotFound, "class_id")
	} else if err != nil {
		return err
	}
	if occ.IsFull() {
		return core.NewRuleError(ErrClassFull, "class_id")
	}
	return nil
}

// linkGuardians upserts each guardian and links it to the pupil.
func (svc *Service) linkGuardians(ctx context.Context, pupilID int64, entries []GuardianEntry, tx core.DBExecutor) error {
	for _, entry := range entries {
		var (
			g   guardian.Guardian
			err error
		)
		email := null.NewString(entry.Email, entry.Email != "")

		if entry.ID != 0 {
			if g, err = svc.guardianRepo.GetGuardian(ctx, entry.ID, tx); err != nil {
				return err
			}
			// relationship_to_pupil is left as first recorded
			g.FirstName = entry.FirstName
			g.LastName = entry.LastName
			g.Address = entry.Address
			g.PhoneNumber = entry.PhoneNumber
			g.Email = email
			if g, err = svc.guardianRepo.UpdateGuardian(ctx, g, tx); err != nil {
				return err
			}
		} else {
			g, err = svc.guardianRepo.CreateGuardian(ctx, guardian.Guardian{
				FirstName:           entry.FirstName,
				LastName:            entry.LastName,
				Address:             entry.Address,
				PhoneNumber:         entry.PhoneNumber,
				Email:               email,
				RelationshipToPupil: entry.RelationshipType,
			}, tx)
			if err != nil {
				return err
			}
		}

		if err = svc.repo.LinkGuardian(ctx, pupilID, g.ID, entry.RelationshipType, tx); err != nil {
			return err
		}
	}
	return nil
}

func (svc *Service) Get(ctx context.Context, id int64) (Enrollment, error) {
	p, err := svc.repo.GetPupil(ctx, id)
	if err != nil {
		return Enrollment{}, err
	}
	reg, err := svc.repo.GetRegistration(ctx, p.RegistrationID)
	if err != nil {
		return Enrollment{}, err
	}
	guardians, err := svc.repo.QueryLinkedGuardians(ctx, p.ID)
	if err != nil {
		return Enrollment{}, err
	}
	return Enrollment{Pupil: p, Registration: reg, Guardians: guardians}, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Pupil, error) {
	return svc.repo.QueryPupils(ctx, filter, ordering)
}

// Delete removes a pupil with its registration and guardian links.
// Pupils with books still checked out cannot be deleted.
func (svc *Service) Delete(ctx context.Context, id int64) error {
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		p, err := svc.repo.GetPupil(ctx, id, tx)
		if err != nil {
			return err
		}
		open, err := svc.repo.CountOpenCheckouts(ctx, p.ID, tx)
		if err != nil {
			return err
		}
		if open > 0 {
			return core.NewValidationError(ErrHasOpenCheckouts)
		}
		return svc.repo.DeletePupil(ctx, p, tx)
	})
	return core.SaveFailed("deleting pupil", err)
}

type confirmationData struct {
	GuardianName   string
	PupilName      string
	ClassName      string
	EnrollmentDate string
	Status         string
}

// sendConfirmation emails the guardians of a newly enrolled pupil. Failures are only logged.
func (svc *Service) sendConfirmation(ctx context.Context, pupilID int64) {
	enr, err := svc.Get(ctx, pupilID)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("loading enrollment %d for confirmation email", pupilID), err)
		return
	}

	messages := make([]*core.EmailMessage, 0, len(enr.Guardians))
	for _, g := range enr.Guardians {
		addr, ok := g.MailAddress()
		if !ok {
			continue
		}
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{addr},
			Subject:      "Enrollment confirmation for " + enr.Pupil.FullName(),
			TemplateName: "enrollment_confirmation",
			TemplateData: confirmationData{
				GuardianName:   g.FullName(),
				PupilName:      enr.Pupil.FullName(),
				ClassName:      enr.Pupil.ClassName,
				EnrollmentDate: enr.Pupil.EnrollmentDate.String(),
				Status:         string(enr.Registration.Status),
			},
		})
	}
	if len(messages) > 0 {
		svc.mailSvc.SendMessages(messages...)
	}
}
