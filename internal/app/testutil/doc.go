// Package testutil provides testing utilities for the whisper-offline application.
//
// This package contains four main components:
//
// 1. Runner fakes (mock_runner.go):
//   - FakeRunner: scripted process.Runner that records every invocation and
//     can emulate the normalizer and transcriber side effects on disk
//   - MockRunner: testify/mock implementation for expectation-style tests
//
// 2. Stub executables (stubs.go):
//   - WriteStub: writes a POSIX shell script into t.TempDir() and makes it executable
//   - NormalizerStub / TranscriberStub: canned scripts that behave like ffmpeg
//     and whisper.cpp as far as the pipeline can observe
//
// 3. Run DAO mock (mock_run_dao.go):
//   - MockRunDAO: testify/mock implementation of repository.RunDAO
//
// 4. API service mocks (mock_services.go):
//   - MockRunService / MockExecutableService for the HTTP handler tests
//
// # Usage Examples
//
//	func TestPipeline(t *testing.T) {
//	    runner := testutil.NewFakeRunner().
//	        OnNormalize(testutil.Exit(0, "", "")).
//	        OnTranscribe(testutil.WriteTranscript("hello world"))
//	    out := pipeline.New(runner, cfg, nil).Execute(ctx, req)
//	    assert.Equal(t, "hello world", out.Transcript)
//	}
package testutil
