package domain

import "github.com/Vovarama1992/cinecampaign/internal/models"

type actor int

const (
	actorDistributor actor = 1 << iota
	actorAdmin
	actorScheduler
)

// transitions lists who may move a campaign from one status to the next.
var transitions = map[models.CampaignStatus]map[models.CampaignStatus]actor{
	models.StatusDraft: {
		models.StatusReview: actorDistributor | actorAdmin,
	},
	models.StatusReview: {
		models.StatusDraft:    actorDistributor | actorAdmin,
		models.StatusApproved: actorAdmin,
		models.StatusRejected: actorAdmin,
	},
	models.StatusRejected: {
		models.StatusDraft: actorDistributor | actorAdmin,
	},
	models.StatusApproved: {
		models.StatusActive: actorAdmin | actorScheduler,
	},
	models.StatusActive: {
		models.StatusFinished: actorAdmin | actorScheduler,
	},
}

func actorOf(p models.Principal) actor {
	if p.IsAdmin() {
		return actorAdmin
	}
	return actorDistributor
}

// CanTransition reports whether p may move a campaign from -> to.
func CanTransition(p models.Principal, from, to models.CampaignStatus) bool {
	return allowed(actorOf(p), from, to)
}

func allowed(a actor, from, to models.CampaignStatus) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	who, ok := next[to]
	return ok && who&a != 0
}

// CanEdit reports whether p may change campaign fields in status s.
func CanEdit(p models.Principal, s models.CampaignStatus) bool {
	if p.IsAdmin() {
		return s != models.StatusFinished
	}
	return s == models.StatusDraft || s == models.StatusRejected
}

// conflictPool is the set of statuses a new submission is scored against.
var conflictPool = []models.CampaignStatus{
	models.StatusReview,
	models.StatusApproved,
	models.StatusActive,
}
