package inaspects

import (
	"errors"
	"fmt"
	"testing"
)

func TestControlSetValueNotifiesInOrder(t *testing.T) {
	ctrl := NewControl("")

	var got []string
	td1 := ctrl.OnUpdate(func(newVal, oldVal string) {
		got = append(got, "first:"+newVal)
	})
	defer td1()
	td2 := ctrl.OnUpdate(func(newVal, oldVal string) {
		got = append(got, "second:"+newVal)
	})
	defer td2()

	if err := ctrl.SetValue("a"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	if len(got) != 2 || got[0] != "first:a" || got[1] != "second:a" {
		t.Errorf("Expected ordered notifications, got %v", got)
	}
	if ctrl.Value() != "a" {
		t.Errorf("Expected value 'a', got %q", ctrl.Value())
	}
}

func TestControlRevisionCountsWrites(t *testing.T) {
	ctrl := NewControl(0)

	if ctrl.Revision() != 0 {
		t.Fatalf("Expected revision 0, got %d", ctrl.Revision())
	}

	for i := 1; i <= 3; i++ {
		if err := ctrl.SetValue(i); err != nil {
			t.Fatalf("SetValue failed: %v", err)
		}
	}

	if ctrl.Revision() != 3 {
		t.Errorf("Expected revision 3, got %d", ctrl.Revision())
	}
}

func TestControlTeardownStopsNotifications(t *testing.T) {
	ctrl := NewControl(0)

	count := 0
	td := ctrl.OnUpdate(func(newVal, oldVal int) {
		count++
	})

	_ = ctrl.SetValue(1)
	td()
	_ = ctrl.SetValue(2)

	if count != 1 {
		t.Errorf("Expected 1 notification, got %d", count)
	}
}

func TestControlTeardownIsIdempotent(t *testing.T) {
	ctrl := NewControl(0)

	td := ctrl.OnUpdate(func(newVal, oldVal int) {})
	td()
	td() // must not panic or drop another subscription

	count := 0
	td2 := ctrl.OnUpdate(func(newVal, oldVal int) {
		count++
	})
	defer td2()

	_ = ctrl.SetValue(1)
	if count != 1 {
		t.Errorf("Expected surviving subscription to fire, got %d", count)
	}
}

func TestControlSubscriberErrorPropagatesToWriter(t *testing.T) {
	ctrl := NewControl(0)

	bad := errors.New("rejected")
	td1 := ctrl.onUpdateRev(func(newVal, oldVal int, rev uint64) error {
		return bad
	})
	defer td1()

	called := false
	td2 := ctrl.OnUpdate(func(newVal, oldVal int) {
		called = true
	})
	defer td2()

	err := ctrl.SetValue(1)
	if !errors.Is(err, bad) {
		t.Errorf("Expected subscriber error to reach writer, got %v", err)
	}
	if !called {
		t.Error("Expected remaining subscribers to be notified despite the error")
	}
	if ctrl.Value() != 1 {
		t.Errorf("Expected value to be written despite the error, got %d", ctrl.Value())
	}
}

func TestControlDoneRejectsWrites(t *testing.T) {
	ctrl := NewControl("v")
	ctrl.Done(nil)

	err := ctrl.SetValue("w")
	if !errors.Is(err, ErrControlDone) {
		t.Errorf("Expected ErrControlDone, got %v", err)
	}
	if ctrl.Value() != "v" {
		t.Errorf("Expected value unchanged after done, got %q", ctrl.Value())
	}
}

func TestControlDoneFiresOnceInOrder(t *testing.T) {
	ctrl := NewControl(0)

	var got []string
	ctrl.OnDone(func(reason any) {
		got = append(got, fmt.Sprintf("first:%v", reason))
	})
	ctrl.OnDone(func(reason any) {
		got = append(got, fmt.Sprintf("second:%v", reason))
	})

	ctrl.Done("closed")
	ctrl.Done("again") // no effect

	if len(got) != 2 || got[0] != "first:closed" || got[1] != "second:closed" {
		t.Errorf("Expected ordered one-shot done callbacks, got %v", got)
	}
	if !ctrl.IsDone() {
		t.Error("Expected IsDone after Done")
	}
	if ctrl.DoneReason() != "closed" {
		t.Errorf("Expected first reason to stick, got %v", ctrl.DoneReason())
	}
}

func TestControlOnDoneAfterDoneFiresImmediately(t *testing.T) {
	ctrl := NewControl(0)
	ctrl.Done("gone")

	var reason any
	ctrl.OnDone(func(r any) {
		reason = r
	})

	if reason != "gone" {
		t.Errorf("Expected immediate callback with recorded reason, got %v", reason)
	}
}

func TestControlSetValueAnyChecksType(t *testing.T) {
	ctrl := NewControl("")

	if err := ctrl.SetValueAny(42); err == nil {
		t.Error("Expected type assertion error for int write to string control")
	}
	if err := ctrl.SetValueAny("ok"); err != nil {
		t.Errorf("Expected typed write to succeed, got %v", err)
	}
	if ctrl.Value() != "ok" {
		t.Errorf("Expected value 'ok', got %q", ctrl.Value())
	}
}

func TestControlReentrantWriteToOtherControl(t *testing.T) {
	a := NewControl(0)
	b := NewControl(0)

	td := a.OnUpdate(func(newVal, oldVal int) {
		if err := b.SetValue(newVal * 10); err != nil {
			t.Errorf("Re-entrant write failed: %v", err)
		}
	})
	defer td()

	if err := a.SetValue(3); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if b.Value() != 30 {
		t.Errorf("Expected b to follow a, got %d", b.Value())
	}
}

func TestControlNameTag(t *testing.T) {
	named := NewControl("", WithName("login"))
	anon := NewControl("")

	if ControlName(named) != "login" {
		t.Errorf("Expected name 'login', got %q", ControlName(named))
	}
	if ControlName(anon) != anon.ID() {
		t.Errorf("Expected fallback to ID, got %q", ControlName(anon))
	}

	if name, ok := NameTag.Get(named); !ok || name != "login" {
		t.Errorf("Expected NameTag lookup to yield 'login', got %q (%v)", name, ok)
	}
}

func TestControlCustomTags(t *testing.T) {
	hintTag := NewTag[string]("field.hint")
	weightTag := NewTag[int]("field.weight")

	ctrl := NewControl("", WithTag(hintTag, "user login"))

	if hint := hintTag.MustGet(ctrl); hint != "user login" {
		t.Errorf("Expected hint 'user login', got %q", hint)
	}
	if w := weightTag.GetOrDefault(ctrl, 5); w != 5 {
		t.Errorf("Expected default weight 5, got %d", w)
	}

	weightTag.Set(ctrl, 7)
	if w, ok := weightTag.Get(ctrl); !ok || w != 7 {
		t.Errorf("Expected weight 7, got %d (%v)", w, ok)
	}
}

func TestControlIDsAreUnique(t *testing.T) {
	a := NewControl(0)
	b := NewControl(0)
	if a.ID() == b.ID() {
		t.Error("Expected distinct control IDs")
	}
}
