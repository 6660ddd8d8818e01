package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_Short(t *testing.T) {
	assert.Equal(t, "Ask a question about analysed videos", askCmd.Short)
}

func TestAskCmd_HasVideosFlag(t *testing.T) {
	flag := askCmd.Flags().Lookup("videos")
	require.NotNil(t, flag, "videos flag should exist")
}

func TestAskCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "what did they cover?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "build tooling")
}

func TestAskCmd_PassesVideoFilter(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--videos", "v1,v2", "what did they cover?"})
	defer func() {
		rootCmd.SetArgs(nil)
		askVideos = nil
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	qa := qaService.(*mockQAService)
	assert.Equal(t, "what did they cover?", qa.question)
	assert.Equal(t, []string{"v1", "v2"}, qa.videoIDs)
}

func TestAskCmd_ShowsSourcesWithFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--sources", "what did they cover?"})
	defer func() {
		rootCmd.SetArgs(nil)
		askSources = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Sources:")
	assert.Contains(t, buf.String(), "Build tooling deep dive")
}

func TestAskCmd_OutputsJSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--json", "what did they cover?"})
	defer func() {
		rootCmd.SetArgs(nil)
		askJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"answer"`)
	assert.Contains(t, buf.String(), `"sources"`)
}

func TestAskCmd_RequiresQuestionWithoutInteractive(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "interactive")
}

func TestAskCmd_PropagatesError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	qaService.(*mockQAService).err = errors.New("llm unavailable")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "llm unavailable")
}
