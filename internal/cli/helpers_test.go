package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testConfigPath = "/etc/rqlsearch/rqlsearch.cue"

const testConfig = `
locale:  "en"
locales: ["en", "fr"]
entities: {
	variable: {
		taxonomies: ["taxonomies/area.yaml"]
		analyzed: ["name"]
		mandatorySourceFields: ["id"]
		aggregations: {
			studyId:   ""
			datasetId: ""
		}
	}
	study: {
		fields: {
			size: {field: "populations.numberOfParticipants", range: true}
		}
		aggregations: {
			"size.type":   "range"
			"size.ranges": "*:1000,1000:*"
		}
	}
}
`

const testTaxonomy = `
name: Mlstr_area
vocabularies:
  - name: Diseases
    terms:
      - name: Cancer
      - name: Diabetes
`

func newTestFS(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testConfigPath, []byte(testConfig), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/etc/rqlsearch/taxonomies/area.yaml", []byte(testTaxonomy), 0o644))
	return fs
}

func newTestOptions(t *testing.T, format string) *RootOptions {
	t.Helper()
	return &RootOptions{Format: format, Config: testConfigPath, Fs: newTestFS(t)}
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeData decodes a JSON CLIResponse and its data into v.
func decodeData(t *testing.T, output string, v any) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	if v != nil {
		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, v))
	}
	return resp
}
