package notifyservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	tp := NewTemplate()

	data := struct {
		PostTitle string
		Commenter string
	}{
		PostTitle: "First Post",
		Commenter: "reader1",
	}

	subject, plainBody, htmlBody, err := tp.ParseTemplate("new_comment_email.html", data)
	require.NoError(t, err)

	assert.Equal(t, `New comment on "First Post"`, subject.String())
	assert.Contains(t, plainBody.String(), "reader1 just commented on your post \"First Post\".")
	assert.Contains(t, htmlBody.String(), "<strong>reader1</strong>")
}

func TestParseTemplateNotFound(t *testing.T) {
	tp := NewTemplate()

	_, _, _, err := tp.ParseTemplate("missing.html", nil)
	assert.Error(t, err)
}
