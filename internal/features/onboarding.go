package features

import (
	"context"

	"github.com/kstobd/DriveNext/internal/flow"
	"github.com/kstobd/DriveNext/internal/repos"
)

// OnboardingState tracks whether the intro flow was already completed.
// Loaded distinguishes "not yet read" from "read and not completed".
type OnboardingState struct {
	Completed bool
	Loaded    bool
}

type OnboardingEvent interface{ isOnboardingEvent() }

type LoadOnboardingStatus struct{}
type CompleteOnboarding struct{}

func (LoadOnboardingStatus) isOnboardingEvent() {}
func (CompleteOnboarding) isOnboardingEvent()   {}

type OnboardingEffect interface{ isOnboardingEffect() }

// OnboardingDone fires once the completion flag is persisted; the caller
// moves on to the auth flow.
type OnboardingDone struct{}

func (OnboardingDone) isOnboardingEffect() {}

type OnboardingStore = flow.Store[OnboardingState, OnboardingEvent, OnboardingEffect]

type onboarding struct {
	prefs *repos.PrefsRepo
}

func NewOnboarding(prefs *repos.PrefsRepo) *OnboardingStore {
	f := &onboarding{prefs: prefs}
	return flow.New(OnboardingState{}, f.handle)
}

func (f *onboarding) handle(ctx context.Context, st *OnboardingStore, ev OnboardingEvent) {
	switch ev.(type) {
	case LoadOnboardingStatus:
		done, err := f.prefs.OnboardingCompleted()
		st.Update(func(s OnboardingState) OnboardingState {
			// On a read failure treat the flag as unset; the intro
			// shows again rather than being skipped.
			s.Completed = err == nil && done
			s.Loaded = true
			return s
		})
	case CompleteOnboarding:
		if err := f.prefs.SetOnboardingCompleted(true); err != nil {
			return // flag stays unset; the intro repeats next start
		}
		st.Update(func(s OnboardingState) OnboardingState {
			s.Completed = true
			s.Loaded = true
			return s
		})
		st.Emit(OnboardingDone{})
	}
}
