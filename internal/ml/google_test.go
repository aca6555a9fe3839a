package ml

import (
	"context"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"
)

func TestImageRequest(t *testing.T) {
	m := &GoogleModel{config: GoogleConfig{ProjectID: "frigo", Location: "europe-west1", ImageModel: defaultImageModel}}

	req, err := imageRequest(m.imageEndpoint(), imagePrompt("Soupe de légumes"))
	if err != nil {
		t.Fatalf("image request: %v", err)
	}
	if want := "projects/frigo/locations/europe-west1/publishers/google/models/imagen-3.0-generate-002"; req.Endpoint != want {
		t.Fatalf("endpoint %q, want %q", req.Endpoint, want)
	}
	if len(req.Instances) != 1 || req.Instances[0].GetStructValue().GetFields()["prompt"].GetStringValue() != imagePrompt("Soupe de légumes") {
		t.Fatalf("unexpected instances %v", req.Instances)
	}
	params := req.Parameters.GetStructValue().GetFields()
	if params["sampleCount"].GetNumberValue() != 1 || params["aspectRatio"].GetStringValue() != "16:9" {
		t.Fatalf("unexpected parameters %v", params)
	}
}

func TestImageFromPredictions(t *testing.T) {
	prediction := func(fields map[string]any) *structpb.Value {
		v, err := structpb.NewValue(fields)
		if err != nil {
			t.Fatalf("build prediction: %v", err)
		}
		return v
	}

	tests := []struct {
		name        string
		predictions []*structpb.Value
		want        string
	}{
		{"none", nil, ""},
		{"filtered", []*structpb.Value{prediction(map[string]any{"raiFilteredReason": "blocked"})}, ""},
		{"jpeg", []*structpb.Value{prediction(map[string]any{"bytesBase64Encoded": "aGVsbG8=", "mimeType": "image/jpeg"})}, "data:image/jpeg;base64,aGVsbG8="},
		{"default mime", []*structpb.Value{
			prediction(map[string]any{}),
			prediction(map[string]any{"bytesBase64Encoded": "aGk="}),
		}, "data:image/png;base64,aGk="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := imageFromPredictions(tt.predictions)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateRecipeImageNotLoaded(t *testing.T) {
	if _, err := (&GoogleModel{}).GenerateRecipeImage(context.Background(), "Tarte"); err == nil {
		t.Fatalf("expected error from unloaded model")
	}
}
