package prompts

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundlab/internal/testutils"
)

func TestLoadAll_MergesBothSources(t *testing.T) {
	fileHelpers := testutils.NewFileHelpers()
	dir := fileHelpers.CreatePromptDir(t, map[string]string{
		"prompts.csv": "Question,Current response time (seconds)\n" +
			"csv question one?,12.5s\n" +
			"csv question two?,9\n",
		"questions.md": "# Questions\n- markdown question\n",
	})

	records := NewLoader(dir).LoadAll()
	require.Len(t, records, 3)

	assert.Equal(t, "csv question one?", records[0].Question)
	assert.Equal(t, "csv question two?", records[1].Question)
	assert.Equal(t, "markdown question?", records[2].Question)

	assert.Equal(t, DefaultMarkdownBaseline, records[2].Baseline)
	assert.Equal(t, ExpectedSearchBehavior, records[2].ExpectedBehavior)
}

func TestLoadAll_FailingSourceIsIsolated(t *testing.T) {
	fileHelpers := testutils.NewFileHelpers()

	t.Run("missing csv keeps markdown prompts", func(t *testing.T) {
		dir := fileHelpers.CreatePromptDir(t, map[string]string{
			"questions.md": "- only markdown here\n",
		})

		records := NewLoader(dir).LoadAll()
		require.Len(t, records, 1)
		assert.Equal(t, "only markdown here?", records[0].Question)
	})

	t.Run("missing markdown keeps csv prompts", func(t *testing.T) {
		dir := fileHelpers.CreatePromptDir(t, map[string]string{
			"prompts.csv": "Question,Current response time (seconds)\nonly csv here?,10s\n",
		})

		records := NewLoader(dir).LoadAll()
		require.Len(t, records, 1)
		assert.Equal(t, "only csv here?", records[0].Question)
		assert.Equal(t, 10*time.Second, records[0].Baseline)
	})

	t.Run("malformed csv keeps markdown prompts", func(t *testing.T) {
		dir := fileHelpers.CreatePromptDir(t, map[string]string{
			"prompts.csv":  "NoUsefulColumns,AtAll\nx,y\n",
			"questions.md": "- survives the bad sibling\n",
		})

		records := NewLoader(dir).LoadAll()
		require.Len(t, records, 1)
		assert.Equal(t, "survives the bad sibling?", records[0].Question)
	})

	t.Run("no sources at all", func(t *testing.T) {
		records := NewLoader(t.TempDir()).LoadAll()
		assert.Empty(t, records)
	})
}

func TestAvailableMarkdownFiles(t *testing.T) {
	fileHelpers := testutils.NewFileHelpers()

	t.Run("sorted and filtered", func(t *testing.T) {
		dir := fileHelpers.CreatePromptDir(t, map[string]string{
			"technology_innovation.md": "- tech\n",
			"business_financial.md":    "- biz\n",
			"README.md":                "docs, not prompts\n",
			"notes.txt":                "ignored\n",
			"nested/extra.md":          "- ignored too\n",
		})

		files, err := NewLoader(dir).AvailableMarkdownFiles()
		require.NoError(t, err)
		assert.Equal(t, []string{"business_financial.md", "technology_innovation.md"}, files)
	})

	t.Run("missing directory yields empty list", func(t *testing.T) {
		files, err := NewLoader(filepath.Join(t.TempDir(), "absent")).AvailableMarkdownFiles()
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}

func TestLoadAllSets(t *testing.T) {
	fileHelpers := testutils.NewFileHelpers()
	dir := fileHelpers.CreatePromptDir(t, map[string]string{
		"business_financial.md": "- What are today's market movers\n- Latest interest rate decision?\n",
		"regional_news.md":      "- What happened locally today\n",
		"README.md":             "not a set\n",
	})

	sets := NewLoader(dir).LoadAllSets()
	require.Len(t, sets, 2)

	assert.Equal(t, []string{
		"What are today's market movers?",
		"Latest interest rate decision?",
	}, sets["business_financial"])
	assert.Equal(t, []string{"What happened locally today?"}, sets["regional_news"])
}

func TestSetInfo(t *testing.T) {
	fileHelpers := testutils.NewFileHelpers()
	dir := fileHelpers.CreatePromptDir(t, map[string]string{
		"a_set.md":     "- one\n- two\n",
		"another.md":   "- three\n",
		"README.md":    "ignored\n",
		"unrelated.js": "ignored\n",
	})

	info := NewLoader(dir).SetInfo()

	assert.Equal(t, 2, info.TotalSets)
	assert.Equal(t, 3, info.TotalPrompts)
	assert.Equal(t, 2, info.Sets["a_set"].Count)
	assert.Equal(t, []string{"one?", "two?"}, info.Sets["a_set"].Prompts)
	assert.Equal(t, 1, info.Sets["another"].Count)
}
