package render

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatglass/internal/actionable"
	"heatglass/internal/extractor"
	"heatglass/internal/normalizer"
	"heatglass/internal/processor"
	"heatglass/internal/rubric"
	"heatglass/internal/scoring"
	"heatglass/internal/types"
)

func scored(r rubric.Rubric) processor.Result {
	ev := extractor.MockEvaluation(r)
	d := scoring.Derive(ev, r.MaxScore)
	return processor.Result{
		ID:         "abc",
		FileName:   "ligacao.mp3",
		Transcript: "Atendente: bom dia.",
		Raw:        "{}",
		Evaluation: ev,
		Derived:    d,
		Action:     actionable.Generate(d, ev),
		Strategy:   normalizer.StrategyFences,
		Recovered:  true,
	}
}

func find(blocks []Block, kind string) (Block, bool) {
	for _, b := range blocks {
		if b.Kind == kind {
			return b, true
		}
	}
	return Block{}, false
}

func TestResponseClass(t *testing.T) {
	t.Parallel()

	tests := map[types.Response]string{
		types.ResponseYes:           ClassGreen,
		types.ResponsePartial:       ClassYellow,
		types.ResponseNo:            ClassRed,
		types.ResponseNotVerifiable: ClassGray,
		types.Response("talvez"):    ClassGray,
	}
	for in, want := range tests {
		assert.Equal(t, want, ResponseClass(in), in)
	}
}

func TestTemperatureEmoji(t *testing.T) {
	t.Parallel()

	want := []string{"😌", "🙂", "😟", "😡"}
	for i, temp := range types.Temperatures {
		assert.Equal(t, want[i], TemperatureEmoji(temp))
	}
	assert.Equal(t, "❔", TemperatureEmoji(""))
}

func TestBucketClass(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ClassRed, BucketClass(scoring.Bucket(10)))
	assert.Equal(t, ClassYellow, BucketClass(scoring.Bucket(40)))
	assert.Equal(t, ClassYellow, BucketClass(scoring.Bucket(60)))
	assert.Equal(t, ClassGreen, BucketClass(scoring.Bucket(80)))
	assert.Equal(t, ClassBlue, BucketClass(scoring.Bucket(99)))
}

func TestMarkdown_SkipsRawHTML(t *testing.T) {
	t.Parallel()

	out := string(Markdown("Cliente **satisfeito**\n\n<script>alert(1)</script>\n\n- item"))
	assert.Contains(t, out, "<strong>satisfeito</strong>")
	assert.Contains(t, out, "<li>item</li>")
	assert.NotContains(t, out, "<script>")
}

func TestBlocks(t *testing.T) {
	t.Parallel()

	r := rubric.Default()

	t.Run("scored", func(t *testing.T) {
		t.Parallel()
		blocks := Blocks(scored(r))

		_, hasErr := find(blocks, KindError)
		assert.False(t, hasErr)
		_, hasDebug := find(blocks, KindDebug)
		assert.False(t, hasDebug)

		score, ok := find(blocks, KindScore)
		require.True(t, ok)
		assert.True(t, score.Bar)
		assert.InDelta(t, 84.0, score.Percent, 1e-9)
		assert.Equal(t, ClassGreen, score.Class)

		temp, ok := find(blocks, KindTemperature)
		require.True(t, ok)
		assert.Equal(t, "🙂", temp.Emoji)

		impact, ok := find(blocks, KindImpact)
		require.True(t, ok)
		assert.True(t, impact.Bar)
		assert.Equal(t, 78.0, impact.Percent)

		cl, ok := find(blocks, KindChecklist)
		require.True(t, ok)
		require.Len(t, cl.Rows, len(r.Checklist))
		assert.Equal(t, ClassYellow, cl.Rows[2].Class)
		assert.Equal(t, "3/6", cl.Rows[2].Points)
		assert.Equal(t, ClassRed, cl.Rows[12].Class)
		assert.Equal(t, ClassGreen, cl.Rows[0].Class)
	})

	t.Run("unrecovered_shows_raw", func(t *testing.T) {
		t.Parallel()
		res := scored(r)
		res.Recovered = false
		res.Raw = "texto livre do modelo"
		dbg, ok := find(Blocks(res), KindDebug)
		require.True(t, ok)
		assert.Equal(t, "texto livre do modelo", dbg.Text)
	})

	t.Run("unknown_labels", func(t *testing.T) {
		t.Parallel()
		res := scored(r)
		res.Evaluation.Temperature.Label = ""
		res.Evaluation.Checklist[0].Response = types.Response("talvez")
		res.Evaluation.ScriptUsage.Status = types.ScriptStatus("quase")
		blocks := Blocks(res)

		temp, _ := find(blocks, KindTemperature)
		assert.Equal(t, normalizer.NotInformed, temp.Text)
		assert.Equal(t, "❔", temp.Emoji)
		cl, _ := find(blocks, KindChecklist)
		assert.Equal(t, normalizer.NotInformed, cl.Rows[0].Value)
		assert.Equal(t, ClassGray, cl.Rows[0].Class)
		assert.Equal(t, string(types.ResponsePartial), cl.Rows[2].Value)
		script, _ := find(blocks, KindScript)
		assert.Equal(t, normalizer.NotInformed, script.Text)
		assert.Equal(t, ClassGray, script.Class)
	})

	t.Run("failed_and_disqualified", func(t *testing.T) {
		t.Parallel()
		res := scored(r)
		res.Error = "completion failed"
		res.Evaluation.Disqualifying[0].Occurred = true
		res.Derived = scoring.Derive(res.Evaluation, r.MaxScore)
		blocks := Blocks(res)
		assert.Equal(t, KindError, blocks[0].Kind)
		score, _ := find(blocks, KindScore)
		assert.Equal(t, ClassRed, score.Class)
		disq, _ := find(blocks, KindDisqualifying)
		assert.Equal(t, "Ocorreu", disq.Rows[0].Value)
	})
}

func TestRenderer(t *testing.T) {
	t.Parallel()

	rnd, err := NewRenderer()
	require.NoError(t, err)

	t.Run("index", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, rnd.Index(&buf, IndexPage{MaxUploadMB: 25}))
		assert.Contains(t, buf.String(), `name="audio"`)
		assert.Contains(t, buf.String(), "25 MB")
		assert.Contains(t, buf.String(), "#C10000")
	})

	t.Run("result", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		res := scored(rubric.Default())
		res.Evaluation.Summary = "Resumo com <b>html</b> e **negrito**"
		err := rnd.Result(&buf, ResultPage{
			Result: res,
			PDF:    template.URL("data:application/pdf;base64,JVBERg=="),
		})
		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "HeatGlass · ligacao.mp3")
		assert.Contains(t, out, `href="data:application/pdf;base64,JVBERg=="`)
		assert.NotContains(t, out, "Baixar XLSX")
		assert.Contains(t, out, "<strong>negrito</strong>")
		assert.NotContains(t, out, "<b>html</b>")
		assert.Contains(t, out, "width: 84%")
		assert.Contains(t, out, "badge yellow")
	})

	t.Run("historico_and_error", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, rnd.Historico(&buf))
		assert.Contains(t, buf.String(), "Histórico de análises")

		buf.Reset()
		require.NoError(t, rnd.Error(&buf, ErrorPage{Status: 400, Message: "envie um arquivo <mp3>"}))
		assert.Contains(t, buf.String(), "envie um arquivo &lt;mp3&gt;")
		assert.False(t, strings.Contains(buf.String(), "<mp3>"))
	})
}
