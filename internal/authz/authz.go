// Package authz holds the pure counterparty checks for lifecycle mutations.
// Each check confirms the acting user is the legitimate party for the
// requested transition and fails with apperr.Forbidden otherwise. No check
// touches the store.
package authz

import (
	"github.com/google/uuid"

	"github.com/creator-marketplace/backend/internal/apperr"
	"github.com/creator-marketplace/backend/internal/models"
)

// CanSubmitApplication: only users with a creator profile apply.
func CanSubmitApplication(actor *models.User) error {
	if actor == nil || actor.Role != models.RoleCreator {
		return apperr.Forbidden("a creator profile is required to apply")
	}
	return nil
}

// CanTransitionApplication: the campaign's brand owner drives review,
// shortlisting, rejection and hiring; only the applicant may withdraw.
func CanTransitionApplication(campaign *models.Campaign, app *models.Application, actorID uuid.UUID, target string) error {
	if target == models.ApplicationStatusWithdrawn {
		if app.CreatorOwnerID != actorID {
			return apperr.Forbidden("only the applicant may withdraw an application")
		}
		return nil
	}
	if campaign.BrandOwnerID != actorID {
		return apperr.Forbidden("only the campaign owner may act on this application")
	}
	return nil
}

// CanManageCampaign: lifecycle actions on a campaign belong to its brand owner.
func CanManageCampaign(campaign *models.Campaign, actorID uuid.UUID) error {
	if campaign.BrandOwnerID != actorID {
		return apperr.Forbidden("only the campaign owner may manage this campaign")
	}
	return nil
}

// CanCreateContract: contracts are drawn up by the hiring brand.
func CanCreateContract(campaign *models.Campaign, actorID uuid.UUID) error {
	if campaign.BrandOwnerID != actorID {
		return apperr.Forbidden("only the campaign owner may create a contract")
	}
	return nil
}

// CanTransitionContract maps each contract transition to its legitimate actor:
// the brand sends and completes, the creator signs, either party cancels.
func CanTransitionContract(c *models.Contract, actorID uuid.UUID, target string) error {
	switch target {
	case models.ContractStatusPendingCreatorSignature:
		if c.BrandUserID != actorID {
			return apperr.Forbidden("only the brand may send the contract for signature")
		}
	case models.ContractStatusActive:
		if c.CreatorUserID != actorID {
			return apperr.Forbidden("only the creator may sign the contract")
		}
	case models.ContractStatusCompleted:
		if c.BrandUserID != actorID {
			return apperr.Forbidden("only the brand may mark the contract completed")
		}
	case models.ContractStatusCancelled:
		if c.BrandUserID != actorID && c.CreatorUserID != actorID {
			return apperr.Forbidden("only a contract party may cancel")
		}
	default:
		return apperr.Forbidden("no actor is permitted to request this transition")
	}
	return nil
}

// CanFundEscrow: the paying side funds.
func CanFundEscrow(c *models.Contract, actorID uuid.UUID) error {
	if c.BrandUserID != actorID {
		return apperr.Forbidden("only the brand may fund escrow")
	}
	return nil
}

// CanReleaseMilestone: the brand approves work and releases payment.
func CanReleaseMilestone(c *models.Contract, actorID uuid.UUID) error {
	if c.BrandUserID != actorID {
		return apperr.Forbidden("only the brand may release a milestone payment")
	}
	return nil
}

// CanMarkMilestoneReady: manual and deliverable-approval triggers are brand
// actions.
func CanMarkMilestoneReady(c *models.Contract, actorID uuid.UUID) error {
	if c.BrandUserID != actorID {
		return apperr.Forbidden("only the brand may mark a milestone ready")
	}
	return nil
}

// CanOpenDispute: either contract party may dispute the escrow.
func CanOpenDispute(c *models.Contract, actorID uuid.UUID) error {
	if c.BrandUserID != actorID && c.CreatorUserID != actorID {
		return apperr.Forbidden("only a contract party may open a dispute")
	}
	return nil
}
