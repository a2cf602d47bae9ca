package views

import "testing"

func TestPostForm_ActionAndHeading(t *testing.T) {
	create := PostForm{}
	if create.Action() != "/make-post" || create.Heading() != "New Post" {
		t.Errorf("create form = %q / %q", create.Action(), create.Heading())
	}

	edit := PostForm{IsEdit: true, PostID: 12}
	if edit.Action() != "/edit/12" || edit.Heading() != "Edit Post" {
		t.Errorf("edit form = %q / %q", edit.Action(), edit.Heading())
	}
}
