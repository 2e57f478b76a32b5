// Package listtest provides a test harness for listkit bindings.
//
// # Quick Start
//
// Create a tester, stage data, reconcile, and check the mirror:
//
//	func TestInbox(t *testing.T) {
//	    tester := listtest.NewTesterWithT[string](t)
//	    tester.Driver.SupplyRows("inbox", section.Backed("Buy milk", 1))
//	    tester.MustReconcile(t)
//	    tester.VerifyMirror(t)
//	}
//
// The tester's driver talks to a MirrorSurface, which replays every script
// through the operation interpreter, and the tester itself collects all
// diagnostics reported through the global errors handler while the test
// runs.
//
// # Scenarios
//
// Scenario files describe an old and a new list state in YAML. Tests and
// the listkit CLI share them:
//
//	sc, _ := listtest.LoadScenario("testdata/board.yaml")
//	ops, _ := sc.Ops()
//	listtest.AssertGolden(t, sc.Name, ops)
//
// Golden files live in testdata/golden and regenerate with:
//
//	go test ./... -update
package listtest
