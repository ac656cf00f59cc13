package types

import "testing"

func TestNextStageAllowedTransitions(t *testing.T) {
	cases := []struct {
		from  Stage
		event StageEvent
		want  Stage
	}{
		{StagePending, EventEnqueueOK, StageProcessing},
		{StagePending, EventEnqueueFailed, StageFailed},
		{StageProcessing, EventRemoteProgress, StageProcessing},
		{StageProcessing, EventRemoteCompleted, StageFinalizing},
		{StageProcessing, EventRemoteFailed, StageFailed},
		{StageProcessing, EventTimeout, StageFailed},
		{StageFinalizing, EventMaterializeOK, StageCompleted},
		{StageFinalizing, EventMaterializeFailed, StageFailed},
	}
	for _, c := range cases {
		got, err := NextStage(c.from, c.event)
		if err != nil {
			t.Fatalf("NextStage(%s, %s): %v", c.from, c.event, err)
		}
		if got != c.want {
			t.Fatalf("NextStage(%s, %s) = %s, want %s", c.from, c.event, got, c.want)
		}
	}
}

func TestNextStageRejectsEverythingElse(t *testing.T) {
	stages := []Stage{StagePending, StageProcessing, StageFinalizing, StageCompleted, StageFailed}
	events := []StageEvent{
		EventEnqueueOK, EventEnqueueFailed,
		EventRemoteProgress, EventRemoteCompleted, EventRemoteFailed,
		EventMaterializeOK, EventMaterializeFailed, EventTimeout,
	}
	allowed := func(s Stage, e StageEvent) bool {
		evs, ok := stageTransitions[s]
		if !ok {
			return false
		}
		_, ok = evs[e]
		return ok
	}

	for _, s := range stages {
		for _, e := range events {
			_, err := NextStage(s, e)
			if allowed(s, e) {
				if err != nil {
					t.Fatalf("expected (%s, %s) to be allowed: %v", s, e, err)
				}
				continue
			}
			if err == nil {
				t.Fatalf("expected (%s, %s) to be rejected", s, e)
			}
		}
	}
}

func TestTerminalStagesAcceptNoEvent(t *testing.T) {
	for _, s := range []Stage{StageCompleted, StageFailed} {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
		for _, e := range []StageEvent{EventRemoteProgress, EventRemoteCompleted, EventRemoteFailed, EventMaterializeOK} {
			if _, err := NextStage(s, e); err == nil {
				t.Fatalf("terminal stage %s accepted event %s", s, e)
			}
		}
	}
}

func TestStagePublicHidesFinalizing(t *testing.T) {
	if got := StageFinalizing.Public(); got != StageProcessing {
		t.Fatalf("finalizing should present as processing, got %s", got)
	}
	for _, s := range []Stage{StagePending, StageProcessing, StageCompleted, StageFailed} {
		if got := s.Public(); got != s {
			t.Fatalf("stage %s should present as itself, got %s", s, got)
		}
	}
}
