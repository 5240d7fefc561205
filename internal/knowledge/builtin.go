package knowledge

// DefaultAppGuide is served for app-related questions with no table match.
const DefaultAppGuide = "- Go to https://simhealth.vercel.app/\n" +
	"- Sign up or log in\n" +
	"- Upload your health report or enter details\n" +
	"- Check 'My Reports' for results\n" +
	"- Both patient-friendly and clinical views are available"

var builtinEntries = []Entry{
	{
		Question: "how do i upload my report",
		Answer:   "- Open the SIMHEALTH app\n- Go to 'Upload Report'\n- Select your file\n- Wait for secure processing",
	},
	{
		Question: "where can i see my results",
		Answer:   "- Go to 'My Reports' on the dashboard\n- You’ll see patient-friendly and detailed clinical views\n- Emergency alerts show if needed",
	},
	{
		Question: "how to book an appointment",
		Answer:   "- SIMHEALTH is for screening only\n- Use your hospital’s booking system for appointments",
	},
	{
		Question: "what diseases are screened",
		Answer:   "- Heart disease\n- Diabetes\n- Tuberculosis\n- Pneumonia\n- COPD",
	},
	{
		Question: "is my data safe",
		Answer:   "- Yes, all data is encrypted (AES + RSA)\n- Reports are secured with blockchain\n- Only you and authorized doctors can view",
	},
	{
		Question: "how do i use the app",
		Answer:   "- Visit https://simhealth.vercel.app/\n- Sign up or log in\n- Enter details or upload reports\n- View results in 'My Reports'\n- Follow chatbot guidance if needed",
	},
}

// Builtin returns the table shipped with the service.
func Builtin() *Base {
	b, err := New(builtinEntries, DefaultAppGuide)
	if err != nil {
		panic(err)
	}
	return b
}

// Load returns the table from path, or the builtin table when path is empty.
func Load(path string) (*Base, error) {
	if path == "" {
		return Builtin(), nil
	}
	return LoadFile(path)
}
